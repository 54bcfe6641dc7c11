package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"lyra/internal/api"
	"lyra/internal/models"
	"lyra/internal/repository"
)

const legacyPageSize = 20

var legacyExtensions = map[string]string{
	".csv":  "csv",
	".xlsx": "xlsx",
}

type LegacyFile struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	HumanSize string    `json:"human_size"`
	Modified  time.Time `json:"modified"`
	Type      string    `json:"type"`
}

type LegacyListing struct {
	Files      []LegacyFile `json:"files"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	Total      int          `json:"total"`
}

// LegacyView - результат просмотра файла: для CSV заполнены Headers и
// Records, для XLSX только Path (файл отдается на скачивание)
type LegacyView struct {
	Name     string              `json:"name"`
	Type     string              `json:"type"`
	Headers  []string            `json:"headers,omitempty"`
	Records  []map[string]string `json:"records,omitempty"`
	Path     string              `json:"-"`
	Download bool                `json:"download"`
}

type LegacyService interface {
	List(page int) (*LegacyListing, error)
	View(filename string) (*LegacyView, error)
	ExportHistory(ctx context.Context, format string) (string, error)
}

type legacyService struct {
	dir  string
	repo repository.IssRepository
}

func NewLegacyService(dir string, repo repository.IssRepository) LegacyService {
	return &legacyService{dir: dir, repo: repo}
}

// List - страница каталога legacy-файлов: только .csv и .xlsx,
// свежие сверху, по 20 на страницу
func (s *legacyService) List(page int) (*LegacyListing, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read legacy dir: %w", err)
	}

	files := make([]LegacyFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fileType, ok := legacyExtensions[strings.ToLower(filepath.Ext(entry.Name()))]
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, LegacyFile{
			Name:      entry.Name(),
			Size:      info.Size(),
			HumanSize: formatBytes(info.Size()),
			Modified:  info.ModTime(),
			Type:      fileType,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Modified.After(files[j].Modified)
	})

	total := len(files)
	totalPages := (total + legacyPageSize - 1) / legacyPageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * legacyPageSize
	end := start + legacyPageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &LegacyListing{
		Files:      files[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}

// View открывает файл из legacy-каталога. Проверка имени идет до
// обращения к файловой системе: обход каталога и чужие расширения
// запрещены независимо от того, существует ли файл
func (s *legacyService) View(filename string) (*LegacyView, error) {
	if strings.Contains(filename, "..") || filename != filepath.Base(filename) {
		return nil, api.ErrForbidden
	}
	fileType, ok := legacyExtensions[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return nil, api.ErrForbidden
	}

	fullPath := filepath.Join(s.dir, filename)
	if _, err := os.Stat(fullPath); err != nil {
		return nil, api.ErrNotFound
	}

	view := &LegacyView{
		Name: filename,
		Type: fileType,
		Path: fullPath,
	}

	if fileType == "xlsx" {
		view.Download = true
		return view, nil
	}

	headers, records, err := readCSV(fullPath)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	view.Headers = headers
	view.Records = records
	return view, nil
}

// ExportHistory выгружает журнал позиций МКС в CSV или XLSX и
// возвращает путь к созданному файлу
func (s *legacyService) ExportHistory(ctx context.Context, format string) (string, error) {
	format = strings.ToLower(format)
	if format != "csv" && format != "xlsx" {
		return "", &api.ValidationError{Details: map[string]string{
			"format": "must be csv or xlsx",
		}}
	}

	positions, err := s.repo.GetHistory(ctx, nil, nil, 1000)
	if err != nil {
		return "", fmt.Errorf("load position history: %w", err)
	}

	name := fmt.Sprintf("iss_history_%s.%s", time.Now().UTC().Format("20060102_150405"), format)
	fullPath := filepath.Join(s.dir, name)

	if format == "csv" {
		err = writeHistoryCSV(fullPath, positions)
	} else {
		err = writeHistoryXLSX(fullPath, positions)
	}
	if err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return fullPath, nil
}

func readCSV(path string) ([]string, []map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return []string{}, []map[string]string{}, nil
	}

	headers := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(row) {
				record[header] = row[i]
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}
	return headers, records, nil
}

var historyHeaders = []string{"Timestamp", "Latitude", "Longitude", "Altitude (km)", "Velocity (km/h)"}

func writeHistoryCSV(path string, positions []models.IssPosition) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(historyHeaders); err != nil {
		return err
	}
	for _, p := range positions {
		row := []string{
			p.Timestamp.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%.4f", p.Latitude),
			fmt.Sprintf("%.4f", p.Longitude),
			fmt.Sprintf("%.2f", p.Altitude),
			fmt.Sprintf("%.2f", p.Velocity),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeHistoryXLSX(path string, positions []models.IssPosition) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "History"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.DeleteSheet("Sheet1")

	for i, header := range historyHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for rowIdx, p := range positions {
		rowNum := rowIdx + 2 // первая строка занята заголовком
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), p.Timestamp.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), p.Latitude)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), p.Longitude)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), p.Altitude)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), p.Velocity)
	}

	for i := 1; i <= len(historyHeaders); i++ {
		colName, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(sheet, colName, colName, 20)
	}

	f.SetActiveSheet(index)
	return f.SaveAs(path)
}

func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
