package messaging

import "github.com/aarynsmith/exercisetracker/internal/domain"

const (
	ActivityQueue   = "exercisetracker.activity"
	DeadLetterQueue = "dead_letter_queue"
)

type UserCreatedData struct {
	User domain.UserIdentity `json:"user"`
}

type ExerciseLoggedData struct {
	Exercise domain.LoggedExercise `json:"exercise"`
}
