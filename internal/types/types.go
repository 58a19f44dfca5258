// Package types holds the data structures shared by the client side
// (transport, store, views) and the reference backend. Keeping them in one
// place prevents import cycles: client, store, handlers and storage can all
// import types without depending on each other.
package types

// Student is a single managed record.
//
// ID is assigned by the server and never changes; every other field is
// mutable through an update. The json:"..." tags match the wire format of
// the /students resource:
//
//	{ "id": 5, "name": "Asha", "email": "asha@test.com", "phone": "555-0101", "address": "12 Hill Rd" }
type Student struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// StudentInput is the payload sent for create and update requests.
// It is a Student without the server-assigned ID.
type StudentInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Input returns the editable fields of s. Used to pre-fill the edit form.
func (s Student) Input() StudentInput {
	return StudentInput{
		Name:    s.Name,
		Email:   s.Email,
		Phone:   s.Phone,
		Address: s.Address,
	}
}

// WithID builds the Student that results from storing in under id.
func (in StudentInput) WithID(id int64) Student {
	return Student{
		ID:      id,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
	}
}
