package store

import (
	"time"

	"github.com/erazemk/gripcheck/internal/model"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func tsPtr(s string) *time.Time {
	t := ts(s)
	return &t
}

// SeedInventory returns the starter cart used when nothing is stored yet.
func SeedInventory() []model.Equipment {
	return []model.Equipment{
		{
			ID:           "1",
			Name:         `40" C-Stand w/ Grip Head & Arm`,
			SerialNumber: "CS-40-001",
			Category:     model.CategoryStands,
			Status:       model.StatusAvailable,
			LastChecked:  tsPtr("2024-05-19T14:20:00Z"),
			Notes:        "Standard Matthews spring-loaded",
			ImageURL:     "https://picsum.photos/seed/cstand1/400/300",
			History: []model.Transaction{
				{ID: "h1", EquipmentID: "1", Type: model.TxCheckIn, Timestamp: ts("2024-05-19T14:20:00Z"), User: "Sarah Miller"},
				{ID: "h2", EquipmentID: "1", Type: model.TxCheckOut, Timestamp: ts("2024-05-18T08:00:00Z"), User: "James Wilson"},
			},
		},
		{
			ID:            "2",
			Name:          "Combo Stand (3-Riser)",
			SerialNumber:  "CM-002",
			Category:      model.CategoryStands,
			Status:        model.StatusCheckedOut,
			CurrentHolder: "Sarah Miller",
			LastChecked:   tsPtr("2024-05-20T10:30:00Z"),
			ImageURL:      "https://picsum.photos/seed/combo/400/300",
			History: []model.Transaction{
				{ID: "h3", EquipmentID: "2", Type: model.TxCheckOut, Timestamp: ts("2024-05-20T10:30:00Z"), User: "Sarah Miller"},
			},
		},
		{
			ID:           "3",
			Name:         "12x12 Solid (Black)",
			SerialNumber: "TX-1212-01",
			Category:     model.CategoryTextiles,
			Status:       model.StatusAvailable,
			ImageURL:     "https://picsum.photos/seed/textile/400/300",
			History:      []model.Transaction{},
		},
		{
			ID:           "4",
			Name:         "Aputure 600d Pro",
			SerialNumber: "LT-600D-05",
			Category:     model.CategoryLighting,
			Status:       model.StatusAvailable,
			LastChecked:  tsPtr("2024-05-21T17:00:00Z"),
			ImageURL:     "https://picsum.photos/seed/aputure/400/300",
			History: []model.Transaction{
				{ID: "h4", EquipmentID: "4", Type: model.TxCheckIn, Timestamp: ts("2024-05-21T17:00:00Z"), User: "John Doe", Notes: "Fans cleaned"},
			},
		},
		{
			ID:            "5",
			Name:          "Apple Box Set (Full, Half, Quarter, Pancake)",
			SerialNumber:  "AB-SET-03",
			Category:      model.CategoryGripSupport,
			Status:        model.StatusCheckedOut,
			CurrentHolder: "James Wilson",
			LastChecked:   tsPtr("2024-05-21T08:15:00Z"),
			ImageURL:      "https://picsum.photos/seed/applebox/400/300",
			History:       []model.Transaction{},
		},
		{
			ID:           "6",
			Name:         "Sandbag (20lb)",
			SerialNumber: "SB-20-112",
			Category:     model.CategoryGripSupport,
			Status:       model.StatusAvailable,
			ImageURL:     "https://picsum.photos/seed/sandbag/400/300",
			History:      []model.Transaction{},
		},
		{
			ID:           "7",
			Name:         "2k Variac Dimmer",
			SerialNumber: "EL-VAR-01",
			Category:     model.CategoryElectric,
			Status:       model.StatusMaintenance,
			Notes:        "Needs fuse replacement",
			ImageURL:     "https://picsum.photos/seed/variac/400/300",
			History: []model.Transaction{
				{ID: "h5", EquipmentID: "7", Type: model.TxMaintenance, Timestamp: ts("2024-05-20T09:00:00Z"), User: "Studio Tech", Notes: "Blown fuse reported"},
			},
		},
	}
}

// SeedCrew returns the starter roster.
func SeedCrew() []model.CompanyMember {
	return []model.CompanyMember{
		{ID: "admin-1", Name: "John Doe", Position: "Key Grip", Department: model.DepartmentGrip, JoinedDate: ts("2024-01-01T00:00:00Z")},
		{ID: "admin-2", Name: "Sarah Miller", Position: "Best Boy Electric", Department: model.DepartmentElectric, JoinedDate: ts("2024-01-01T00:00:00Z")},
	}
}
