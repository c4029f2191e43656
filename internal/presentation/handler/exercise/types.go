package exercise

import (
	"bytes"
	"encoding/json"
)

// flexString accepts a JSON string or any bare scalar, keeping the scalar's
// literal text, so {"duration": 30} and {"duration": "30"} decode alike.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}

	*s = flexString(data)
	return nil
}

// newUserRequest represents the registration body (form or JSON)
type newUserRequest struct {
	Username flexString `json:"username" example:"alice"` // Name to register, matched case sensitively
}

// addExerciseRequest represents an exercise submission (form or JSON)
type addExerciseRequest struct {
	UserID      flexString `json:"userId" example:"65a1f0c2e4b0a1b2c3d4e5f6"` // Id returned by new-user
	Description flexString `json:"description" example:"morning run"`        // What was done
	Duration    flexString `json:"duration" example:"30"`                    // Minutes, string or number
	Date        flexString `json:"date" example:"2024-01-10"`                // Optional, defaults to today
}

// userResponse represents a user's identity
type userResponse struct {
	ID       string `json:"id" example:"65a1f0c2e4b0a1b2c3d4e5f6"` // Unique user identifier
	Username string `json:"username" example:"alice"`              // Registered name
}

// exerciseResponse echoes an appended exercise with its owner
type exerciseResponse struct {
	ID          string  `json:"id" example:"65a1f0c2e4b0a1b2c3d4e5f6"` // Owner's user identifier
	Username    string  `json:"username" example:"alice"`              // Owner's name
	Date        string  `json:"date" example:"Wed Jan 10 2024"`        // Normalized date
	Duration    float64 `json:"duration" example:"30"`                 // Minutes
	Description string  `json:"description" example:"morning run"`     // What was done
}

// logEntryResponse is one entry of a user's log
type logEntryResponse struct {
	Description string  `json:"description" example:"morning run"` // What was done
	Duration    float64 `json:"duration" example:"30"`             // Minutes
	Date        string  `json:"date" example:"Wed Jan 10 2024"`    // Normalized date
}

// userLogResponse is a user with a filtered view of their log
type userLogResponse struct {
	ID       string             `json:"id" example:"65a1f0c2e4b0a1b2c3d4e5f6"` // Unique user identifier
	Username string             `json:"username" example:"alice"`              // Registered name
	Count    int                `json:"count" example:"3"`                     // Total stored entries, ignoring filters
	Log      []logEntryResponse `json:"log"`                                   // Entries after from/to/limit
}
