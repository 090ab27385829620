package db

import (
	"context"
)

// ResetTables drops and recreates the google and yelp tables.
func (q *Queries) ResetTables(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, Schema)
	return err
}

type InsertPlaceParams struct {
	Name        string
	Street      string
	City        string
	State       string
	Zipcode     string
	Rating      float64
	ReviewCount int64
}

const insertGoogle = `
INSERT INTO google (Name, Street, City, State, Zipcode, google_rating, google_review_count)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertGoogle(ctx context.Context, arg InsertPlaceParams) error {
	_, err := q.db.ExecContext(ctx, insertGoogle,
		arg.Name,
		arg.Street,
		arg.City,
		arg.State,
		arg.Zipcode,
		arg.Rating,
		arg.ReviewCount,
	)
	return err
}

const insertYelp = `
INSERT INTO yelp (Name, Street, City, State, Zipcode, yelp_rating, yelp_review_count)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertYelp(ctx context.Context, arg InsertPlaceParams) error {
	_, err := q.db.ExecContext(ctx, insertYelp,
		arg.Name,
		arg.Street,
		arg.City,
		arg.State,
		arg.Zipcode,
		arg.Rating,
		arg.ReviewCount,
	)
	return err
}

const countGoogle = `SELECT COUNT(*) FROM google`

func (q *Queries) CountGoogle(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countGoogle)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countYelp = `SELECT COUNT(*) FROM yelp`

func (q *Queries) CountYelp(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countYelp)
	var count int64
	err := row.Scan(&count)
	return count, err
}

// city and state are deliberately not part of the join condition
const getMatchedPairs = `
SELECT g.Name, g.Street, g.City, g.State, g.Zipcode,
    g.google_rating, g.google_review_count,
    y.yelp_rating, y.yelp_review_count
FROM google g
JOIN yelp y ON g.Name = y.Name AND g.Street = y.Street AND g.Zipcode = y.Zipcode
ORDER BY g.ID, y.ID
`

type GetMatchedPairsRow struct {
	Name              string
	Street            string
	City              string
	State             string
	Zipcode           string
	GoogleRating      float64
	GoogleReviewCount int64
	YelpRating        float64
	YelpReviewCount   int64
}

func (q *Queries) GetMatchedPairs(ctx context.Context) ([]GetMatchedPairsRow, error) {
	rows, err := q.db.QueryContext(ctx, getMatchedPairs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetMatchedPairsRow
	for rows.Next() {
		var i GetMatchedPairsRow
		if err := rows.Scan(
			&i.Name,
			&i.Street,
			&i.City,
			&i.State,
			&i.Zipcode,
			&i.GoogleRating,
			&i.GoogleReviewCount,
			&i.YelpRating,
			&i.YelpReviewCount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
