package api

import (
	"strings"
	"time"

	"prokatnik/internal/models"
	"prokatnik/internal/service"
)

const (
	defaultPageFrom = models.DefaultPageFrom
	defaultPageSize = models.DefaultPageSize
)

// Ответы повторяют форму исходного API: вложенные booker/item, статус
// в верхнем регистре.

type userRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type itemRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type bookingResponse struct {
	ID     int64     `json:"id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status string    `json:"status"`
	Booker userRef   `json:"booker"`
	Item   itemRef   `json:"item"`
}

func newBookingResponse(b models.Booking) bookingResponse {
	return bookingResponse{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: strings.ToUpper(string(b.Status)),
		Booker: userRef{ID: b.BookerID, Name: b.BookerName},
		Item:   itemRef{ID: b.ItemID, Name: b.ItemName},
	}
}

func newBookingResponses(bookings []models.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, newBookingResponse(b))
	}
	return out
}

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newUserResponse(u models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

type itemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

func newItemResponse(i models.Item) itemResponse {
	return itemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		RequestID:   i.RequestID,
	}
}

func newItemResponses(items []models.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, newItemResponse(i))
	}
	return out
}

type commentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

func newCommentResponse(c models.Comment) commentResponse {
	return commentResponse{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		Created:    c.Created,
	}
}

func newCommentResponses(comments []models.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, newCommentResponse(c))
	}
	return out
}

type itemViewResponse struct {
	itemResponse
	LastBooking *models.BookingSummary `json:"lastBooking"`
	NextBooking *models.BookingSummary `json:"nextBooking"`
	Comments    []commentResponse      `json:"comments"`
}

func newItemViewResponse(v service.ItemView) itemViewResponse {
	return itemViewResponse{
		itemResponse: newItemResponse(v.Item),
		LastBooking:  v.LastBooking,
		NextBooking:  v.NextBooking,
		Comments:     newCommentResponses(v.Comments),
	}
}

func newItemViewResponses(views []service.ItemView) []itemViewResponse {
	out := make([]itemViewResponse, 0, len(views))
	for _, v := range views {
		out = append(out, newItemViewResponse(v))
	}
	return out
}

type requestResponse struct {
	ID          int64          `json:"id"`
	Description string         `json:"description"`
	Created     time.Time      `json:"created"`
	Items       []itemResponse `json:"items,omitempty"`
}

func newRequestResponse(r models.ItemRequest, items []models.Item) requestResponse {
	return requestResponse{
		ID:          r.ID,
		Description: r.Description,
		Created:     r.Created,
		Items:       newItemResponses(items),
	}
}

func newRequestViewResponses(views []service.RequestView) []requestResponse {
	out := make([]requestResponse, 0, len(views))
	for _, v := range views {
		out = append(out, newRequestResponse(v.Request, v.Items))
	}
	return out
}
