package models

type User struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Notes []Note `json:"notes"`
}

type Note struct {
	Id     int64  `json:"id"`
	Title  string `json:"title"`
	Text   string `json:"text"`
	UserId string `json:"user_id"`
}

// Session is the server-side state behind a session cookie.
// AccessToken is empty for sessions opened by signup.
type Session struct {
	UserId      string `json:"user_id"`
	AccessToken string `json:"access_token,omitempty"`
	Expires     int64  `json:"expires"`
}
