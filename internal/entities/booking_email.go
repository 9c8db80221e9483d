package entities

type BookingEmailData struct {
	UserName           string
	BookingID          int
	ServiceName        string
	ProviderName       string
	ElderName          string
	Status             string
	ScheduledFormatted string
	DurationMinutes    int
	CurrentYear        int
}
