package entity

// StoreName addresses one of the line-oriented queue stores
type StoreName string

const (
	StorePending  StoreName = "pending"
	StorePast     StoreName = "past"
	StoreRejected StoreName = "rejected"
	StoreIntake   StoreName = "intake"
)

// AllStores lists every store in a stable order
var AllStores = []StoreName{StorePending, StorePast, StoreRejected, StoreIntake}

// Valid reports whether s is one of the known stores
func (s StoreName) Valid() bool {
	switch s {
	case StorePending, StorePast, StoreRejected, StoreIntake:
		return true
	}
	return false
}

// ReviewItem is the oldest unreviewed suggestion together with the intake size
type ReviewItem struct {
	Text    string
	Pending int
}

// Announcement describes a posted question of the day
type Announcement struct {
	Number    int
	Question  string
	Remaining int
}
