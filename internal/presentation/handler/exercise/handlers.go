package exercise

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/aarynsmith/exercisetracker/internal/domain"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/json"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/logging"
)

var errInvalidBody = errors.New("invalid request body")

// Tracker is the set of user and exercise-log operations the handlers
// serve. *repository.UserRepository implements it.
type Tracker interface {
	ListUsers(ctx context.Context) ([]domain.UserIdentity, error)
	CreateUser(ctx context.Context, username string) (domain.UserIdentity, error)
	AppendLogEntry(ctx context.Context, userID string, in domain.LogEntryInput) (domain.LoggedExercise, error)
	GetUserWithLog(ctx context.Context, userID string, filter domain.LogFilter) (*domain.User, error)
}

type Handler struct {
	tracker Tracker
	logger  logging.Logger
}

func NewHandler(tracker Tracker, logger logging.Logger) *Handler {
	return &Handler{
		tracker: tracker,
		logger:  logger,
	}
}

// ListUsersHandler godoc
// @Summary      List users
// @Description  Returns the id and username of every registered user
// @Tags         exercise
// @Produce      json
// @Success      200 {array}  userResponse "Registered users"
// @Failure      500 {string} string "error getting user list"
// @Router       /exercise/users [get]
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.tracker.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, userResponse{ID: u.ID, Username: u.Username})
	}

	json.Write(w, http.StatusOK, resp)
}

// NewUserHandler godoc
// @Summary      Register a user
// @Description  Creates a user with an empty exercise log. Usernames are unique, case sensitive.
// @Tags         exercise
// @Accept       x-www-form-urlencoded,json
// @Produce      json
// @Param        request body newUserRequest true "Username to register"
// @Success      200 {object} userResponse "User created"
// @Failure      400 {string} string "username already taken"
// @Failure      500 {string} string "error saving user"
// @Router       /exercise/new-user [post]
func (h *Handler) NewUserHandler(w http.ResponseWriter, r *http.Request) {
	var req newUserRequest
	if err := decodeBody(w, r, &req, func(get func(string) string) {
		req.Username = flexString(get("username"))
	}); err != nil {
		json.WriteValidationError(w, errInvalidBody)
		return
	}

	user, err := h.tracker.CreateUser(r.Context(), string(req.Username))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	json.Write(w, http.StatusOK, userResponse{ID: user.ID, Username: user.Username})
}

// AddExerciseHandler godoc
// @Summary      Log an exercise
// @Description  Appends an entry to the user's log and increments their count. A missing date means today; an unparsable one is stored as "Invalid Date".
// @Tags         exercise
// @Accept       x-www-form-urlencoded,json
// @Produce      json
// @Param        request body addExerciseRequest true "Exercise to log"
// @Success      200 {object} exerciseResponse "Exercise logged"
// @Failure      400 {string} string "no user id specified"
// @Failure      404 {string} string "user not found"
// @Failure      500 {string} string "error saving exercise"
// @Router       /exercise/add [post]
func (h *Handler) AddExerciseHandler(w http.ResponseWriter, r *http.Request) {
	var req addExerciseRequest
	if err := decodeBody(w, r, &req, func(get func(string) string) {
		req.UserID = flexString(get("userId"))
		req.Description = flexString(get("description"))
		req.Duration = flexString(get("duration"))
		req.Date = flexString(get("date"))
	}); err != nil {
		json.WriteValidationError(w, errInvalidBody)
		return
	}

	logged, err := h.tracker.AppendLogEntry(r.Context(), string(req.UserID), domain.LogEntryInput{
		Description: string(req.Description),
		Duration:    string(req.Duration),
		Date:        string(req.Date),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	json.Write(w, http.StatusOK, exerciseResponse{
		ID:          logged.ID,
		Username:    logged.Username,
		Date:        logged.Date,
		Duration:    logged.Duration,
		Description: logged.Description,
	})
}

// GetLogHandler godoc
// @Summary      Get a user's exercise log
// @Description  Returns the user with their log filtered by from/to (inclusive) then truncated to limit. count is always the stored total.
// @Tags         exercise
// @Produce      json
// @Param        userId query string true  "User id"
// @Param        from   query string false "Earliest date, e.g. 2024-01-01"
// @Param        to     query string false "Latest date, e.g. 2024-01-31"
// @Param        limit  query int    false "Maximum number of entries"
// @Success      200 {object} userLogResponse "User with log"
// @Failure      400 {string} string "invalid from date"
// @Failure      404 {string} string "user not found"
// @Failure      500 {string} string "error getting user log"
// @Router       /exercise/log [get]
func (h *Handler) GetLogHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("userId")

	if err := domain.RequireUserID(userID); err != nil {
		h.writeError(w, r, err)
		return
	}

	filter, err := domain.ParseLogFilter(q.Get("from"), q.Get("to"), q.Get("limit"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.tracker.GetUserWithLog(r.Context(), userID, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	entries := make([]logEntryResponse, 0, len(user.Log))
	for _, e := range user.Log {
		entries = append(entries, logEntryResponse{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        e.Date,
		})
	}

	json.Write(w, http.StatusOK, userLogResponse{
		ID:       user.ID,
		Username: user.Username,
		Count:    user.Count,
		Log:      entries,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := json.WriteError(w, err)
	if status < http.StatusInternalServerError {
		return
	}

	extra := map[logging.ExtraKey]any{
		logging.Path:         r.URL.Path,
		logging.Method:       r.Method,
		logging.StatusCode:   status,
		logging.ErrorMessage: err.Error(),
	}
	if cause := errors.Unwrap(err); cause != nil {
		extra["cause"] = cause.Error()
	}
	h.logger.Error(logging.Internal, logging.Api, "request failed", extra)
}

// decodeBody fills dst from a JSON body, or calls fromForm with a lookup
// over the url-encoded (or multipart) form for any other content type. An
// empty JSON body leaves dst zero so field validation reports what is
// missing.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, fromForm func(get func(string) string)) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		if err := json.Read(w, r, dst); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	}

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			return err
		}
	} else if err := r.ParseForm(); err != nil {
		return err
	}

	fromForm(r.PostFormValue)
	return nil
}
