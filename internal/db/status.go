package db

import "fmt"

// BookingStatus is the lifecycle state of a booking. Statuses are
// persisted as lowercase string tokens.
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// validTransitions is the booking state machine. completed and
// cancelled are terminal.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// ActiveStatuses are the statuses that occupy a provider's time slot.
var ActiveStatuses = []string{string(StatusConfirmed), string(StatusInProgress)}

func (s BookingStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0 && s.IsValid()
}

func (s BookingStatus) String() string {
	return string(s)
}

func ParseBookingStatus(raw string) (BookingStatus, error) {
	s := BookingStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid booking status %q", raw)
	}
	return s, nil
}

// ServiceType is the fixed set of care service categories.
type ServiceType string

const (
	ServiceHomeCare         ServiceType = "home_care"
	ServiceMedicalServices  ServiceType = "medical_services"
	ServiceAdultDayCare     ServiceType = "adult_day_care"
	ServicePharmacyServices ServiceType = "pharmacy_services"
	ServiceCompanionship    ServiceType = "companionship"
	ServiceTransportation   ServiceType = "transportation"
)

var serviceTypes = map[ServiceType]bool{
	ServiceHomeCare:         true,
	ServiceMedicalServices:  true,
	ServiceAdultDayCare:     true,
	ServicePharmacyServices: true,
	ServiceCompanionship:    true,
	ServiceTransportation:   true,
}

func (t ServiceType) IsValid() bool {
	return serviceTypes[t]
}

func ParseServiceType(raw string) (ServiceType, error) {
	t := ServiceType(raw)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid service type %q", raw)
	}
	return t, nil
}

// ProviderType classifies a care provider profile.
type ProviderType string

const (
	ProviderIndividual ProviderType = "individual"
	ProviderFacility   ProviderType = "facility"
	ProviderPharmacy   ProviderType = "pharmacy"
	ProviderHospital   ProviderType = "hospital"
)

func (t ProviderType) IsValid() bool {
	switch t {
	case ProviderIndividual, ProviderFacility, ProviderPharmacy, ProviderHospital:
		return true
	}
	return false
}
