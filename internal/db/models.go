package db

import "time"

type User struct {
	ID        int
	Username  string
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Role      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type FamilyProfile struct {
	ID                    int
	UserID                int
	Address               string
	City                  string
	State                 string
	ZipCode               string
	EmergencyContactName  string
	EmergencyContactPhone string
}

type Elder struct {
	ID                int
	FamilyProfileID   int
	FirstName         string
	LastName          string
	DateOfBirth       *time.Time
	Gender            string
	MedicalConditions string
	Medications       string
	MobilityLevel     string
	CarePreferences   string
	CreatedAt         time.Time
}

type ProviderProfile struct {
	ID                   int
	UserID               int
	ProviderType         ProviderType
	BusinessName         string
	LicenseNumber        string
	Certifications       string
	Specialties          string
	Description          string
	Address              string
	City                 string
	State                string
	ZipCode              string
	HourlyRate           *float64
	DailyRate            *float64
	IsVerified           bool
	VerificationDate     *time.Time
	Rating               float64
	TotalReviews         int
	AvailabilitySchedule string // JSON weekly schedule, empty when unset
	CreatedAt            time.Time
}

type Service struct {
	ID              int
	ProviderID      int
	ServiceType     ServiceType
	Name            string
	Description     string
	Price           *float64
	DurationMinutes int
	IsActive        bool
	CreatedAt       time.Time
}

type Booking struct {
	ID                  int
	FamilyUserID        int
	ProviderID          int
	ServiceID           int
	ElderID             int
	ScheduledDate       time.Time
	DurationMinutes     int
	Status              BookingStatus
	TotalCost           *float64
	SpecialInstructions string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Review struct {
	ID           int
	BookingID    int
	ProviderID   int
	FamilyUserID int
	Rating       int
	Comment      string
	CreatedAt    time.Time
}
