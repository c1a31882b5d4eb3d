package model

import "time"

// TransactionType names the kind of audit record.
type TransactionType string

// Transaction types.
const (
	TxCheckIn       TransactionType = "check-in"
	TxCheckOut      TransactionType = "check-out"
	TxMaintenance   TransactionType = "maintenance"
	TxRecovered     TransactionType = "recovered"
	TxDamageReport  TransactionType = "damage-report"
	TxProjectAssign TransactionType = "project-assign"
	TxStatusChange  TransactionType = "status-change"
)

// TransactionTypes lists every transaction type.
var TransactionTypes = []TransactionType{
	TxCheckIn,
	TxCheckOut,
	TxMaintenance,
	TxRecovered,
	TxDamageReport,
	TxProjectAssign,
	TxStatusChange,
}

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	for _, known := range TransactionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Transaction is one immutable entry in an equipment's history.
type Transaction struct {
	ID           string          `json:"id"`
	EquipmentID  string          `json:"equipment_id"`
	Type         TransactionType `json:"type"`
	Timestamp    time.Time       `json:"timestamp"`
	User         string          `json:"user"`
	UserPosition string          `json:"user_position,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	Project      string          `json:"project,omitempty"`
}
