package repository

import "gorm.io/gorm"

// findPage 统计总数后按排序分页读取；omit 列不参与查询
func findPage(query *gorm.DB, page, pageSize int, order string, omit []string, dest interface{}) (int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	if pageSize > 0 {
		if page < 1 {
			page = 1
		}
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}
	if len(omit) > 0 {
		query = query.Omit(omit...)
	}
	return total, query.Order(order).Find(dest).Error
}
