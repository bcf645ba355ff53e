// Package sheet выгружает связи мастер-клиент в Google Sheets.
package sheet

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"master_crm/internal/model"

	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type SheetService struct {
	SpreadsheetID string
	SheetID       string
	SheetName     string
	srv           *sheets.Service
	limiter       *rate.Limiter // пауза между запросами к API
	colMap        ColumnMap
}

type ColumnMap map[string]int // например: "N": 0, "Master": 1, ...

// Создает ColumnMap по умолчанию (жестко заданный порядок)
func NewDefaultColumnMap() ColumnMap {
	return ColumnMap{
		"N":            0,
		"Master":       1,
		"Client":       2,
		"Phone":        3,
		"Birthday":     4,
		"RegisteredAt": 5,
		"TgID":         6,
	}
}

// Создает ColumnMap из строки порядка (например: "N,Master,Client,Phone")
func CreateColumnMapFromOrder(order string) ColumnMap {
	if strings.TrimSpace(order) == "" {
		return NewDefaultColumnMap()
	}
	fields := strings.Split(order, ",")
	m := make(ColumnMap)
	for idx, field := range fields {
		m[strings.TrimSpace(field)] = idx
	}
	return m
}

func newLimiter(pauseMs int) *rate.Limiter {
	if pauseMs <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Duration(pauseMs)*time.Millisecond), 1)
}

// Конструктор SheetService
func NewSheetService(base64Creds, spreadsheetID, sheetID string, pauseMs int, colMap ColumnMap) (*SheetService, error) {
	ctx := context.Background()
	credBytes, err := base64.StdEncoding.DecodeString(base64Creds)
	if err != nil {
		return nil, fmt.Errorf("не удается декодировать credentials из base64: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, credBytes, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("не удается создать credentials из JSON: %w", err)
	}
	srv, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("не удается инициализировать сервис Google Sheets: %w", err)
	}

	s := &SheetService{
		SpreadsheetID: spreadsheetID,
		SheetID:       sheetID,
		srv:           srv,
		limiter:       newLimiter(pauseMs),
		colMap:        colMap,
	}

	// Получаем имя листа
	if err := s.fetchSheetName(); err != nil {
		return nil, fmt.Errorf("не удается получить имя листа: %w", err)
	}

	return s, nil
}

func (s *SheetService) fetchSheetName() error {
	s.Wait()

	resp, err := s.srv.Spreadsheets.Get(s.SpreadsheetID).Do()
	if err != nil {
		return fmt.Errorf("ошибка получения информации о таблице: %w", err)
	}

	for _, sheet := range resp.Sheets {
		if fmt.Sprint(sheet.Properties.SheetId) == s.SheetID {
			s.SheetName = sheet.Properties.Title
			return nil
		}
	}

	return fmt.Errorf("лист с ID %s не найден", s.SheetID)
}

// Wait выдерживает паузу между запросами
func (s *SheetService) Wait() {
	_ = s.limiter.Wait(context.Background())
}

// rowValues раскладывает связь по колонкам таблицы
func rowValues(colMap ColumnMap, rel model.MasterClient) []interface{} {
	width := 0
	for _, idx := range colMap {
		if idx+1 > width {
			width = idx + 1
		}
	}
	values := make([]interface{}, width)
	for i := range values {
		values[i] = ""
	}

	for field, idx := range colMap {
		switch field {
		case "N":
			values[idx] = rel.ID
		case "Master":
			if rel.Master != nil {
				values[idx] = rel.Master.Name
			}
		case "Client":
			if rel.Client != nil {
				values[idx] = rel.Client.Name
			}
		case "Phone":
			if rel.Client != nil && rel.Client.Phone != nil {
				values[idx] = *rel.Client.Phone
			}
		case "Birthday":
			if rel.Client != nil && rel.Client.Birthday != nil {
				values[idx] = rel.Client.Birthday.Format("02.01.2006")
			}
		case "RegisteredAt":
			values[idx] = rel.CreatedAt.Format("02.01.2006 15:04")
		case "TgID":
			if rel.Client != nil && rel.Client.TgID != nil {
				values[idx] = *rel.Client.TgID
			}
		}
	}
	return values
}

// InsertRelationship пишет связь в строку row
func (s *SheetService) InsertRelationship(row int, rel model.MasterClient) error {
	s.Wait()

	vr := &sheets.ValueRange{
		Values: [][]interface{}{rowValues(s.colMap, rel)},
	}

	// Используем имя листа вместо ID
	rangeStr := fmt.Sprintf("%s!A%d", s.SheetName, row)
	_, err := s.srv.Spreadsheets.Values.Update(s.SpreadsheetID, rangeStr, vr).ValueInputOption("RAW").Do()
	if err != nil {
		return fmt.Errorf("ошибка вставки в таблицу: %w", err)
	}
	return nil
}

// FindFirstFreeRow - строка после последней заполненной в колонке A
func (s *SheetService) FindFirstFreeRow() (int, error) {
	s.Wait()

	rangeStr := fmt.Sprintf("%s!A:A", s.SheetName)
	resp, err := s.srv.Spreadsheets.Values.Get(s.SpreadsheetID, rangeStr).Do()
	if err != nil {
		return 0, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return freeRow(resp.Values), nil
}

// freeRow: API отдает значения до последней непустой строки, пустые ячейки в конце отрезаны
func freeRow(values [][]interface{}) int {
	last := 0
	for i, row := range values {
		if len(row) > 0 && strings.TrimSpace(fmt.Sprint(row[0])) != "" {
			last = i + 1
		}
	}
	return last + 1
}
