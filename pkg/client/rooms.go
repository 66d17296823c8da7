package client

import (
	"context"
	"net/url"
	"time"
)

// RoomsClient talks to the rooms service HTTP API.
type RoomsClient struct {
	httpClient *HttpClient
}

func NewRoomsClient(baseURL string) *RoomsClient {
	return &RoomsClient{
		httpClient: NewHttpClient(baseURL),
	}
}

type BookRoomRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func (c *RoomsClient) Book(ctx context.Context, roomID string, start, end time.Time) (*Response, error) {
	path := "/api/v1/rooms/id/" + url.PathEscape(roomID) + "/bookings"
	return c.httpClient.POST(ctx, path, BookRoomRequest{StartTime: start, EndTime: end})
}

func (c *RoomsClient) Available(ctx context.Context, start, end time.Time) (*Response, error) {
	q := url.Values{}
	q.Set("start_time", start.Format(time.RFC3339))
	q.Set("end_time", end.Format(time.RFC3339))
	return c.httpClient.GET(ctx, "/api/v1/rooms/available?"+q.Encode())
}

func (c *RoomsClient) GetRoom(ctx context.Context, roomID string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/rooms/id/"+url.PathEscape(roomID))
}

func (c *RoomsClient) Cancel(ctx context.Context, bookingID string) (*Response, error) {
	return c.httpClient.DELETE(ctx, "/api/v1/bookings/id/"+url.PathEscape(bookingID))
}
