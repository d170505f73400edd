package payment

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/eduverse/core/course"
	"github.com/irsalhamdi/eduverse/core/live"
	"github.com/jmoiron/sqlx"
)

// Product is anything that can be bought and enrolled in.
type Product struct {
	Kind         Kind   `json:"kind"`
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Price        int    `json:"price"`
	InstructorID string `json:"instructorId"`
}

var products = map[Kind]func(ctx context.Context, db sqlx.ExtContext, id string) (Product, error){
	KindCourse: func(ctx context.Context, db sqlx.ExtContext, id string) (Product, error) {
		c, err := course.Fetch(ctx, db, id)
		if err != nil {
			return Product{}, err
		}
		return Product{Kind: KindCourse, ID: c.ID, Title: c.Title, Description: c.Description, Price: c.Price, InstructorID: c.InstructorID}, nil
	},
	KindLive: func(ctx context.Context, db sqlx.ExtContext, id string) (Product, error) {
		c, err := live.Fetch(ctx, db, id)
		if err != nil {
			return Product{}, err
		}
		return Product{Kind: KindLive, ID: c.ID, Title: c.Title, Description: c.Description, Price: c.Price, InstructorID: c.InstructorID}, nil
	},
}

func FetchProduct(ctx context.Context, db sqlx.ExtContext, kind Kind, id string) (Product, error) {
	fetch, ok := products[kind]
	if !ok {
		return Product{}, fmt.Errorf("fetching product: unknown kind %q", kind)
	}
	return fetch(ctx, db, id)
}
