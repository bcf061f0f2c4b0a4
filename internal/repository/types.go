package repository

// PackageListFilter 查询包裹列表的过滤条件
type PackageListFilter struct {
	Page        int
	PageSize    int
	Status      string
	RecipientID uint
	Search      string
}

// RecipientListFilter 查询收件人列表的过滤条件
type RecipientListFilter struct {
	Page     int
	PageSize int
	Search   string
}
