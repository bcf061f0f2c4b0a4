package service

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// BulkDeleteResult 批量删除结果，两个部分不重叠地划分输入
type BulkDeleteResult struct {
	DeletedCount    int64   `json:"deleted_count"`
	NotFoundNumbers []int64 `json:"not_found_numbers"`
}

// ParseKeys 将请求中的键列表解析为整数，接受 JSON 整数与数字字符串，重复键合并
func ParseKeys(values []interface{}) ([]int64, error) {
	if len(values) == 0 {
		return nil, ErrInvalidKeys
	}
	keys := make([]int64, 0, len(values))
	seen := make(map[int64]struct{}, len(values))
	for _, value := range values {
		key, ok := parseKey(value)
		if !ok {
			return nil, ErrInvalidKeys
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys, nil
}

func parseKey(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || math.Abs(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// partitionKeys 按输入顺序返回不存在的键
func partitionKeys(keys, existing []int64) []int64 {
	found := make(map[int64]struct{}, len(existing))
	for _, key := range existing {
		found[key] = struct{}{}
	}
	missing := make([]int64, 0, len(keys))
	for _, key := range keys {
		if _, ok := found[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// uniqueKeys 去重并保持输入顺序
func uniqueKeys(keys []int64) []int64 {
	seen := make(map[int64]struct{}, len(keys))
	out := make([]int64, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
