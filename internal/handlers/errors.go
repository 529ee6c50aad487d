package handlers

// Error codes passed between handlers through redirect query parameters.
const (
	ErrCodeInvalidDate        = "invalid_date"
	ErrCodeInvalidFormData    = "invalid_form_data"
	ErrCodeFailedSaveSchedule = "failed_save_schedule"
	ErrCodeFailedLoadSchedule = "failed_load_schedule"
	ErrCodeUnknown            = "unknown_error"
)

// Success codes.
const (
	SuccessCodeSchedulesSaved = "schedules_saved"
)

var errorMessages = map[string]string{
	ErrCodeInvalidDate:        "The requested date is not a valid calendar date.",
	ErrCodeInvalidFormData:    "Some of the submitted schedule entries are invalid. Please review them and try again.",
	ErrCodeFailedSaveSchedule: "Failed to save the schedule entries. Please try again.",
	ErrCodeFailedLoadSchedule: "Failed to load schedule entries.",
	ErrCodeUnknown:            "An unknown error occurred.",
}

var successMessages = map[string]string{
	SuccessCodeSchedulesSaved: "Schedule entries saved.",
}

// GetErrorMessage returns the user facing message for an error code.
func GetErrorMessage(code string) string {
	if message, ok := errorMessages[code]; ok {
		return message
	}
	return errorMessages[ErrCodeUnknown]
}

// GetSuccessMessage returns the user facing message for a success code.
func GetSuccessMessage(code string) string {
	if message, ok := successMessages[code]; ok {
		return message
	}
	return ""
}
