package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parcelkeep/internal/config"
	"github.com/parcelkeep/internal/constants"
	"github.com/parcelkeep/internal/logger"
	"github.com/parcelkeep/internal/models"
)

// 导入文件中按数字解析的列
var importNumericColumns = map[string]struct{}{
	"recipient_id":      {},
	"package_weight":    {},
	"price":             {},
	"recipient_contact": {},
}

// ImportService 文件批量导入服务
type ImportService struct {
	cfg        *config.Config
	packages   *PackageService
	recipients *RecipientService
}

// NewImportService 创建导入服务
func NewImportService(cfg *config.Config, packages *PackageService, recipients *RecipientService) *ImportService {
	return &ImportService{cfg: cfg, packages: packages, recipients: recipients}
}

// ImportPackages 从 JSON/CSV 文件批量创建包裹，语义同 AddMany
func (s *ImportService) ImportPackages(file *multipart.FileHeader) ([]models.Package, error) {
	var items []PackageInput
	if err := s.decode(file, &items); err != nil {
		return nil, err
	}
	return s.packages.addMany(items, constants.PackageEventSourceImport)
}

// ImportRecipients 从 JSON/CSV 文件批量创建收件人
func (s *ImportService) ImportRecipients(file *multipart.FileHeader) ([]models.Recipient, error) {
	var items []RecipientInput
	if err := s.decode(file, &items); err != nil {
		return nil, err
	}
	return s.recipients.addMany(items, constants.WriteSourceImport)
}

func (s *ImportService) maxSize() int64 {
	if s.cfg != nil && s.cfg.Import.MaxSize > 0 {
		return s.cfg.Import.MaxSize
	}
	return constants.ImportMaxSize
}

// decode 读取上传文件并解析到 out（切片指针）
func (s *ImportService) decode(file *multipart.FileHeader, out interface{}) error {
	if file == nil {
		return fmt.Errorf("%w: file is required", ErrImportParseFailed)
	}
	limit := s.maxSize()
	if file.Size > limit {
		return ErrImportTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".json" && ext != ".csv" {
		return ErrUnsupportedImportFormat
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return err
	}
	if int64(len(data)) > limit {
		return ErrImportTooLarge
	}

	if ext == ".csv" {
		data, err = csvToJSON(data)
		if err != nil {
			logger.Warnw("import_csv_parse_failed", "filename", file.Filename, "error", err)
			return fmt.Errorf("%w: %v", ErrImportParseFailed, err)
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		logger.Warnw("import_json_parse_failed", "filename", file.Filename, "error", err)
		return fmt.Errorf("%w: %v", ErrImportParseFailed, err)
	}
	return nil
}

// csvToJSON 将首行为字段名的 CSV 转为 JSON 数组，空单元格视为未提供
func csvToJSON(data []byte) ([]byte, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header row")
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
	}

	rows := make([]map[string]interface{}, 0, len(records)-1)
	for line, record := range records[1:] {
		row := make(map[string]interface{}, len(header))
		for i, cell := range record {
			if i >= len(header) || header[i] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if _, numeric := importNumericColumns[header[i]]; numeric {
				if _, err := strconv.ParseFloat(cell, 64); err != nil {
					return nil, fmt.Errorf("line %d: column %s is not a number: %s", line+2, header[i], cell)
				}
				row[header[i]] = json.Number(cell)
				continue
			}
			row[header[i]] = cell
		}
		rows = append(rows, row)
	}
	return json.Marshal(rows)
}
