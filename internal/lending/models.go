package lending

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusIssued   = "issued"
	StatusReturned = "returned"
	StatusOverdue  = "overdue"
	StatusRejected = "rejected"
)

// ActiveStatuses are the states in which a transaction still holds or awaits
// stock; a component cannot be deleted while one exists.
var ActiveStatuses = []string{StatusPending, StatusApproved, StatusIssued}

// Transaction ties a borrower to a component and quantity through the loan
// lifecycle. Authenticated rows reference a user account; kiosk rows leave
// UserID nil and identify the borrower by roll number.
type Transaction struct {
	ID            uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ComponentID   uint64  `gorm:"index;not null" json:"component_id"`
	ComponentName string  `gorm:"type:varchar(200);not null" json:"component_name"`
	UserID        *uint64 `gorm:"index" json:"user_id,omitempty"`
	UserName      string  `gorm:"type:varchar(100);not null" json:"user_name"`
	UserEmail     string  `gorm:"type:varchar(255);not null" json:"user_email"`
	RollNumber    string  `gorm:"type:varchar(50);index" json:"roll_number,omitempty"`

	Quantity int    `gorm:"not null" json:"quantity"`
	Purpose  string `gorm:"type:varchar(500)" json:"purpose,omitempty"`
	Status   string `gorm:"type:varchar(16);index;not null" json:"status"`

	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
	IssueDate          *time.Time `gorm:"index" json:"issue_date,omitempty"`
	DueDate            *time.Time `gorm:"index" json:"due_date,omitempty"`
	ReturnDate         *time.Time `json:"return_date,omitempty"`
	ReturnCondition    string     `gorm:"type:varchar(100)" json:"return_condition,omitempty"`

	ApprovedBy *uint64 `json:"approved_by,omitempty"`
	AdminNotes string  `gorm:"type:varchar(500)" json:"admin_notes,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Transaction) TableName() string { return "transactions" }
