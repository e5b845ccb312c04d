package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/apermo/friends/api/validator"
	"github.com/apermo/friends/emoji"
)

// A DB provides the reaction store: per-user, per-post reaction slugs with
// set semantics.
type DB interface {
	ListReactions(ctx context.Context, postID, userID int64) ([]string, error)
	AddReaction(ctx context.Context, postID, userID int64, slug string) error
	RemoveReaction(ctx context.Context, postID, userID int64, slug string) error
	ListReactingUsers(ctx context.Context, postID int64) ([]User, error)
}

// A Cache provides the per-post remote reaction state persisted between
// feed polls.
type Cache interface {
	ListRemoteReactions(ctx context.Context, postID int64) (map[string]RemoteReaction, error)
	SaveRemoteReactions(ctx context.Context, postID int64, reactions map[string]RemoteReaction) error
}

// An Authenticator resolves the user behind a request. Identity is managed
// elsewhere; this service only consumes it.
type Authenticator interface {
	Authenticate(r *http.Request) (User, error)
}

// A Notifier receives the user-reacted event after a successful toggle,
// for example to cross-post the reaction to the remote site. Calls are
// fire-and-forget.
type Notifier interface {
	UserReacted(postID int64)
}

// API provides the REST endpoints for the reactions service.
type API struct {
	Logger *slog.Logger
	DB     DB
	Cache  Cache
	Emoji  *emoji.Catalog
	Auth   Authenticator
	Val    *validator.Validator

	// Notifier is optional; nil disables outbound events.
	Notifier Notifier

	// PrimaryUserID is the local identity representing the remote feed's
	// own reaction activity.
	PrimaryUserID int64

	once sync.Once
	mux  *http.ServeMux
}

// Rejection codes surfaced to callers alongside the error message.
const (
	codeUnauthorized = "unauthorized"
	codeInvalidInput = "invalid-input"
	codeUnknownEmoji = "unknown-emoji"
	codeInternal     = "internal"
)

func (a *API) setupRoutes() {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /posts/{postID}/reactions", a.listReactions)
	mux.HandleFunc("POST /posts/{postID}/reactions/toggle", a.toggleReaction)
	mux.HandleFunc("POST /posts/{postID}/reactions/remote", a.ingestRemoteReactions)
	mux.HandleFunc("POST /posts/{postID}/reactions/friends/{friendID}", a.ingestFriendReactions)

	a.mux = mux
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.once.Do(a.setupRoutes)
	a.Logger.Info("Request received", "method", r.Method, "path", r.URL.Path)
	a.mux.ServeHTTP(w, r)
}

func (a *API) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.Logger.Error("Could not encode JSON body", "error", err.Error())
	}
}

func (a *API) respondError(w http.ResponseWriter, status int, code string, err error, msg string) {
	type response struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	a.Logger.Error("Error", "code", code, "error", err.Error())
	a.respond(w, status, response{Error: msg, Code: code})
}

func (a *API) validateBody(w http.ResponseWriter, s interface{}) bool {
	errs := a.Val.ValidateStruct(s)
	type response struct {
		Errors []validator.ValidationError `json:"errors"`
		Code   string                      `json:"code"`
	}

	if len(errs) > 0 {
		a.respond(w, http.StatusBadRequest, &response{
			Errors: errs,
			Code:   codeInvalidInput,
		})
		return false
	}
	return true
}

// authenticate resolves the viewer or writes the unauthorized response.
func (a *API) authenticate(w http.ResponseWriter, r *http.Request) (User, bool) {
	viewer, err := a.Auth.Authenticate(r)
	if err != nil {
		a.respondError(w, http.StatusUnauthorized, codeUnauthorized, err, "You are not authorized to send a reaction.")
		return User{}, false
	}
	return viewer, true
}

// pathID parses a positive integer path segment such as the post id.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, r.PathValue(name))
	}
	return id, nil
}

func (a *API) listReactions(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Reactions []Reaction `json:"reactions"`
	}

	viewer, ok := a.authenticate(w, r)
	if !ok {
		return
	}
	postID, err := pathID(r, "postID")
	if err != nil {
		a.respondError(w, http.StatusBadRequest, codeInvalidInput, err, "Invalid post ID")
		return
	}

	a.respond(w, http.StatusOK, response{
		Reactions: a.aggregateReactions(r.Context(), postID, viewer),
	})
}

func (a *API) toggleReaction(w http.ResponseWriter, r *http.Request) {
	type (
		request struct {
			Reaction string `json:"reaction" validate:"required,reactionslug"`
		}
		response struct {
			Result    bool       `json:"result"`
			Reactions []Reaction `json:"reactions"`
		}
	)

	viewer, ok := a.authenticate(w, r)
	if !ok {
		return
	}
	postID, err := pathID(r, "postID")
	if err != nil {
		a.respondError(w, http.StatusBadRequest, codeInvalidInput, err, "Invalid post ID")
		return
	}

	var body request
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.respondError(w, http.StatusBadRequest, codeInvalidInput, err, "Could not decode request body")
		return
	}
	if valid := a.validateBody(w, &body); !valid {
		return
	}

	slug := strings.ToLower(body.Reaction)
	if _, ok := a.Emoji.Glyph(slug); !ok {
		a.respondError(w, http.StatusBadRequest, codeUnknownEmoji, errors.New("emoji not in available set"), "This emoji is unknown.")
		return
	}

	slugs, err := a.DB.ListReactions(r.Context(), postID, viewer.ID)
	if err != nil {
		a.respondError(w, http.StatusInternalServerError, codeInternal, err, "Could not toggle reaction")
		return
	}
	reacted := false
	for _, s := range slugs {
		if strings.ToLower(s) == slug {
			reacted = true
			break
		}
	}

	if reacted {
		err = a.DB.RemoveReaction(r.Context(), postID, viewer.ID, slug)
	} else {
		err = a.DB.AddReaction(r.Context(), postID, viewer.ID, slug)
	}
	if err != nil {
		a.respondError(w, http.StatusInternalServerError, codeInternal, err, "Could not toggle reaction")
		return
	}

	if a.Notifier != nil {
		go a.Notifier.UserReacted(postID)
	}

	a.respond(w, http.StatusOK, response{
		Result:    true,
		Reactions: a.aggregateReactions(r.Context(), postID, viewer),
	})
}

// ingestRemoteReactions accepts a fresh remote reaction snapshot for a
// post, as parsed by the feed reader, and reconciles it against the
// configured primary remote identity.
func (a *API) ingestRemoteReactions(w http.ResponseWriter, r *http.Request) {
	type (
		request struct {
			Reactions map[string]RemoteReaction `json:"reactions"`
		}
		response struct {
			Reactions map[string]RemoteReaction `json:"reactions"`
		}
	)

	if _, ok := a.authenticate(w, r); !ok {
		return
	}
	postID, err := pathID(r, "postID")
	if err != nil {
		a.respondError(w, http.StatusBadRequest, codeInvalidInput, err, "Invalid post ID")
		return
	}

	var body request
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.respondError(w, http.StatusBadRequest, codeInvalidInput, err, "Could not decode request body")
		return
	}

	reactions, err := a.updateRemoteReactions(r.Context(), postID, a.PrimaryUserID, body.Reactions)
	if err != nil {
		a.respondError(w, http.StatusInternalServerError, codeInternal, err, "Could not update remote reactions")
		return
	}

	a.respond(w, http.StatusOK, response{Reactions: reactions})
}

// ingestFriendReactions accepts the full list of reaction slugs one friend
// currently reports for a post and equalizes the stored state to it.
func (a *API) ingestFriendReactions(w http.ResponseWriter, r *http.Request) {
	type (
		request struct {
			Reactions []string `json:"reactions"`
		}
		response struct {
			Reactions []string `json:"reactions"`
		}
	)

	if _, ok := a.authenticate(w, r); !ok {
		return
	}
	postID, err := pathID(r, "postID")
	if err != nil {
		a.respondError(w, http.StatusBadRequest, codeInvalidInput, err, "Invalid post ID")
		return
	}
	friendID, err := pathID(r, "friendID")
	if err != nil {
		a.respondError(w, http.StatusBadRequest, codeInvalidInput, err, "Invalid friend ID")
		return
	}

	var body request
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.respondError(w, http.StatusBadRequest, codeInvalidInput, err, "Could not decode request body")
		return
	}

	applied, err := a.updateFriendReactions(r.Context(), postID, friendID, body.Reactions)
	if err != nil {
		a.respondError(w, http.StatusInternalServerError, codeInternal, err, "Could not update friend reactions")
		return
	}

	a.respond(w, http.StatusOK, response{Reactions: applied})
}
