package domain

import "master_crm/internal/model"

type SheetService interface {
	InsertRelationship(row int, rel model.MasterClient) error
	FindFirstFreeRow() (int, error)
}
