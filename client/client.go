// Package client is the Go consumer of the doctor-manager HTTP API. It
// mirrors what the web client does: bearer token after login, a cached shift
// list per dashboard with optimistic counter updates, and a small persisted
// session (current user + preferences).
package client

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type User struct {
	ID        uint    `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	AvatarURL *string `json:"avatarUrl"`
	Theme     string  `json:"theme"`
	Language  string  `json:"language"`
	Token     string  `json:"token,omitempty"`
}

type Dashboard struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	ShareData bool      `json:"shareData"`
	CreatedAt time.Time `json:"createdAt"`
}

type ShiftCounts struct {
	ID           uint `json:"id"`
	ShiftID      uint `json:"shiftId"`
	Member1      int  `json:"member1"`
	Member2      int  `json:"member2"`
	Member3      int  `json:"member3"`
	PrivateCount int  `json:"privateCount"`
}

type Shift struct {
	ID          uint         `json:"id"`
	DashboardID uint         `json:"dashboardId"`
	DoctorName  string       `json:"doctorName"`
	ShiftTime   string       `json:"shiftTime"`
	CreatedAt   time.Time    `json:"createdAt"`
	Counts      *ShiftCounts `json:"counts"`
}

type Totals struct {
	DashboardID  uint `json:"dashboardId"`
	Member1      int  `json:"member1"`
	Member2      int  `json:"member2"`
	Member3      int  `json:"member3"`
	PrivateCount int  `json:"privateCount"`
	GrandTotal   int  `json:"grandTotal"`
}

// CountUpdates are absolute values, nil fields are not sent.
type CountUpdates struct {
	Member1      *int `json:"member1,omitempty"`
	Member2      *int `json:"member2,omitempty"`
	Member3      *int `json:"member3,omitempty"`
	PrivateCount *int `json:"privateCount,omitempty"`
}

type AccountUpdates struct {
	UserID    uint    `json:"userId"`
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Theme     *string `json:"theme,omitempty"`
	Language  *string `json:"language,omitempty"`
}

// APIError is the server's structured error body.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

type Client struct {
	http    *resty.Client
	session *Session
	cache   *ShiftCache
}

func New(baseURL string, session *Session) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	c := &Client{
		http:    http,
		session: session,
		cache:   NewShiftCache(),
	}

	// Resume a stored session, the server will reject the token if it has
	// expired since.
	if user, ok := session.CurrentUser(); ok && user.Token != "" {
		http.SetAuthToken(user.Token)
	}

	return c
}

func (c *Client) Session() *Session { return c.session }
func (c *Client) Cache() *ShiftCache { return c.cache }

func apiErr(resp *resty.Response) error {
	if apiError, ok := resp.Error().(*APIError); ok && apiError.Message != "" {
		return apiError
	}
	return &APIError{Status: resp.StatusCode(), Code: "unknown", Message: resp.Status()}
}

func (c *Client) Login(email, password string) (*User, error) {
	var user User
	resp, err := c.http.R().
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&user).
		SetError(&APIError{}).
		Post("/api/login")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiErr(resp)
	}

	c.http.SetAuthToken(user.Token)
	if err := c.session.SetCurrentUser(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Logout() error {
	c.http.SetAuthToken("")
	return c.session.ClearCurrentUser()
}

func (c *Client) UpdateAccount(updates AccountUpdates) (*User, error) {
	var user User
	resp, err := c.http.R().
		SetBody(updates).
		SetResult(&user).
		SetError(&APIError{}).
		Patch("/api/account")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiErr(resp)
	}

	// The token survives account edits, only the profile blob changes.
	if stored, ok := c.session.CurrentUser(); ok {
		user.Token = stored.Token
	}
	if err := c.session.SetCurrentUser(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Dashboards() ([]Dashboard, error) {
	var dashboards []Dashboard
	resp, err := c.http.R().
		SetResult(&dashboards).
		SetError(&APIError{}).
		Get("/api/dashboards")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiErr(resp)
	}
	return dashboards, nil
}

func (c *Client) CreateDashboard(name, color string, shareData bool) (*Dashboard, error) {
	var dashboard Dashboard
	resp, err := c.http.R().
		SetBody(map[string]any{"name": name, "color": color, "shareData": shareData}).
		SetResult(&dashboard).
		SetError(&APIError{}).
		Post("/api/dashboards")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiErr(resp)
	}
	return &dashboard, nil
}

func (c *Client) DeleteDashboard(id uint) error {
	resp, err := c.http.R().
		SetError(&APIError{}).
		Delete(fmt.Sprintf("/api/dashboards/%d", id))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiErr(resp)
	}
	c.cache.Invalidate(id)
	return nil
}

func (c *Client) DashboardTotals(id uint) (*Totals, error) {
	var totals Totals
	resp, err := c.http.R().
		SetResult(&totals).
		SetError(&APIError{}).
		Get(fmt.Sprintf("/api/dashboards/%d/totals", id))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiErr(resp)
	}
	return &totals, nil
}

// Shifts fetches from the server and refreshes the cache entry.
func (c *Client) Shifts(dashboardID uint) ([]Shift, error) {
	var shifts []Shift
	resp, err := c.http.R().
		SetResult(&shifts).
		SetError(&APIError{}).
		Get(fmt.Sprintf("/api/dashboards/%d/shifts", dashboardID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiErr(resp)
	}
	c.cache.Set(dashboardID, shifts)
	return shifts, nil
}

func (c *Client) CreateShift(dashboardID uint, doctorName, shiftTime string) (*Shift, error) {
	var shift Shift
	resp, err := c.http.R().
		SetBody(map[string]any{
			"dashboardId": dashboardID,
			"doctorName":  doctorName,
			"shiftTime":   shiftTime,
		}).
		SetResult(&shift).
		SetError(&APIError{}).
		Post("/api/shifts")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiErr(resp)
	}
	c.cache.Invalidate(dashboardID)
	return &shift, nil
}

func (c *Client) DeleteShift(id, dashboardID uint) error {
	resp, err := c.http.R().
		SetError(&APIError{}).
		Delete(fmt.Sprintf("/api/shifts/%d", id))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiErr(resp)
	}
	c.cache.Invalidate(dashboardID)
	return nil
}

func (c *Client) updateShiftCounts(shiftID uint, counts CountUpdates) (*ShiftCounts, error) {
	var updated ShiftCounts
	resp, err := c.http.R().
		SetBody(counts).
		SetResult(&updated).
		SetError(&APIError{}).
		Put(fmt.Sprintf("/api/shifts/%d/counts", shiftID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiErr(resp)
	}
	return &updated, nil
}

// UpdateShiftCounts applies the three-phase optimistic contract:
//  1. snapshot the cached shift list and apply the new values speculatively,
//  2. roll back to the snapshot if the request fails,
//  3. refetch from the server afterwards no matter what, so the cache always
//     reconciles with the source of truth.
func (c *Client) UpdateShiftCounts(dashboardID, shiftID uint, counts CountUpdates) (*ShiftCounts, error) {
	snapshot, hadSnapshot := c.cache.Snapshot(dashboardID)
	c.cache.ApplyCounts(dashboardID, shiftID, counts)

	updated, err := c.updateShiftCounts(shiftID, counts)
	if err != nil && hadSnapshot {
		c.cache.Restore(dashboardID, snapshot)
	}

	// Reconcile regardless of outcome. A failed refetch leaves the cache
	// as-is, the next read will try again.
	_, _ = c.Shifts(dashboardID)

	return updated, err
}
