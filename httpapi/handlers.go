package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"libraria/circulation"
	"libraria/circulation/command/borrowbook"
	"libraria/circulation/command/returnbook"
	"libraria/reviews"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type registerResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type borrowRequest struct {
	BookID   string     `json:"bookId"`
	ReturnBy *time.Time `json:"returnBy"`
}

type borrowResponse struct {
	LogID             string `json:"logId"`
	RemainingQuantity int    `json:"remainingQuantity"`
}

type returnRequest struct {
	LogID  string `json:"logId"`
	BookID string `json:"bookId"`
}

type returnResponse struct {
	RemainingQuantity int `json:"remainingQuantity"`
}

type reviewRequest struct {
	BookID  string `json:"bookId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type reviewInfo struct {
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type bookInfo struct {
	BookID            string       `json:"bookId"`
	Title             string       `json:"title"`
	Author            string       `json:"author"`
	Year              int          `json:"year"`
	Category          string       `json:"category"`
	TotalQuantity     int          `json:"totalQuantity"`
	AvailableQuantity int          `json:"availableQuantity"`
	Status            string       `json:"status"`
	Reviews           []reviewInfo `json:"reviews"`
}

type listBooksResponse struct {
	Books []bookInfo `json:"books"`
	Count int        `json:"count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		s.writeError(w, r, circulation.ErrInvalidRequest)
		return
	}

	token, loginErr := s.accounts.Login(r.Context(), req.Email, req.Password)
	if loginErr != nil {
		s.writeError(w, r, loginErr)
		return
	}

	s.writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if logoutErr := s.accounts.Logout(r.Context(), tokenFrom(r.Context())); logoutErr != nil {
		s.writeError(w, r, logoutErr)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		s.writeError(w, r, circulation.ErrInvalidRequest)
		return
	}

	user, registerErr := s.accounts.Register(r.Context(), req.Email, req.Name, req.Password, req.Role)
	if registerErr != nil {
		s.writeError(w, r, registerErr)
		return
	}

	s.writeJSON(w, http.StatusCreated, registerResponse{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role,
	})
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, listErr := s.listing.Handle(r.Context())
	if listErr != nil {
		s.writeError(w, r, listErr)
		return
	}

	infos := make([]bookInfo, 0, len(books.Books))
	for _, book := range books.Books {
		infos = append(infos, bookInfo{
			BookID:            book.BookID.String(),
			Title:             book.Title,
			Author:            book.Author,
			Year:              book.Year,
			Category:          book.Category,
			TotalQuantity:     book.TotalQuantity,
			AvailableQuantity: book.AvailableQuantity,
			Status:            book.Status,
			Reviews:           toReviewInfos(book.Reviews),
		})
	}

	s.writeJSON(w, http.StatusOK, listBooksResponse{Books: infos, Count: books.Count})
}

func (s *Server) handleBorrow(w http.ResponseWriter, r *http.Request) {
	var req borrowRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		s.writeError(w, r, circulation.ErrInvalidRequest)
		return
	}

	bookID, parseErr := uuid.Parse(req.BookID)
	if parseErr != nil {
		s.writeError(w, r, circulation.ErrInvalidRequest)
		return
	}

	returnBy := time.Time{}
	if req.ReturnBy != nil {
		returnBy = *req.ReturnBy
	}

	command, buildErr := borrowbook.BuildCommand(bookID, principalFrom(r.Context()), returnBy, time.Now())
	if buildErr != nil {
		s.writeError(w, r, buildErr)
		return
	}

	result, handleErr := s.borrow.Handle(r.Context(), command)
	if handleErr != nil {
		s.writeError(w, r, handleErr)
		return
	}

	s.writeJSON(w, http.StatusCreated, borrowResponse{
		LogID:             result.LogID.String(),
		RemainingQuantity: result.RemainingQuantity,
	})
}

func (s *Server) handleReturn(w http.ResponseWriter, r *http.Request) {
	var req returnRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		s.writeError(w, r, circulation.ErrInvalidRequest)
		return
	}

	logID, logParseErr := uuid.Parse(req.LogID)
	bookID, bookParseErr := uuid.Parse(req.BookID)
	if logParseErr != nil || bookParseErr != nil {
		s.writeError(w, r, circulation.ErrInvalidRequest)
		return
	}

	command, buildErr := returnbook.BuildCommand(logID, bookID, principalFrom(r.Context()), time.Now())
	if buildErr != nil {
		s.writeError(w, r, buildErr)
		return
	}

	result, handleErr := s.returns.Handle(r.Context(), command)
	if handleErr != nil {
		s.writeError(w, r, handleErr)
		return
	}

	s.writeJSON(w, http.StatusOK, returnResponse{RemainingQuantity: result.RemainingQuantity})
}

func (s *Server) handleAddReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		s.writeError(w, r, circulation.ErrInvalidRequest)
		return
	}

	bookID, parseErr := uuid.Parse(req.BookID)
	if parseErr != nil {
		s.writeError(w, r, circulation.ErrInvalidRequest)
		return
	}

	review, buildErr := reviews.BuildReview(principalFrom(r.Context()), req.Rating, req.Comment, time.Now())
	if buildErr != nil {
		s.writeError(w, r, buildErr)
		return
	}

	if appendErr := s.reviews.AppendReview(r.Context(), bookID, review); appendErr != nil {
		s.writeError(w, r, appendErr)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleGetReviews(w http.ResponseWriter, r *http.Request) {
	bookID, parseErr := uuid.Parse(chi.URLParam(r, "bookID"))
	if parseErr != nil {
		s.writeError(w, r, circulation.ErrInvalidRequest)
		return
	}

	stored, readErr := s.reviews.ReviewsForBook(r.Context(), bookID)
	if readErr != nil {
		s.writeError(w, r, readErr)
		return
	}

	s.writeJSON(w, http.StatusOK, toReviewInfos(stored))
}

func toReviewInfos(stored []reviews.Review) []reviewInfo {
	infos := make([]reviewInfo, 0, len(stored))
	for _, review := range stored {
		infos = append(infos, reviewInfo{
			UserID:    review.UserID.String(),
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		})
	}

	return infos
}
