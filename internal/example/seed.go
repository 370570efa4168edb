package example

import (
	"context"
	"time"

	"adminql/orm"
)

// Schema creates the tables of the sample model. The statements are plain
// enough for SQLite, MySQL and PostgreSQL.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS addresses (
		id BIGINT PRIMARY KEY,
		city VARCHAR(128) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id BIGINT PRIMARY KEY,
		nickname VARCHAR(128) NOT NULL,
		address_id BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		name VARCHAR(128) NOT NULL,
		status VARCHAR(32) NOT NULL,
		bio TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		profile_id BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id BIGINT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		title VARCHAR(255) NOT NULL,
		body TEXT NOT NULL,
		published_at TIMESTAMP NOT NULL,
		tags TEXT
	)`,
}

func Migrate(ctx context.Context, db *orm.DB) error {
	for _, stmt := range Schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

var day = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

var (
	Addresses = []*Address{
		{Id: 1, City: "Paris"},
		{Id: 2, City: "Rome"},
	}
	Profiles = []*Profile{
		{Id: 1, Nickname: "tom", AddressId: 1},
		{Id: 2, Nickname: "jerry", AddressId: 2},
		{Id: 3, Nickname: "spike", AddressId: 1},
	}
	Users = []*User{
		{Id: 1, Name: "Tom", Status: "active", Bio: "A cat.", CreatedAt: day, ProfileId: 1},
		{Id: 2, Name: "Jerry", Status: "active", Bio: "A mouse.", CreatedAt: day.AddDate(0, 0, 1), ProfileId: 2},
		{Id: 3, Name: "Spike", Status: "inactive", Bio: "A dog.", CreatedAt: day.AddDate(0, 0, 2), ProfileId: 3},
	}
	Posts = []*Post{
		{Id: 1, UserId: 1, Title: "Chasing", Body: "Mostly mice.", PublishedAt: day,
			Tags: orm.NewJSONColumn([]string{"mice", "sport"})},
		{Id: 2, UserId: 1, Title: "Napping", Body: "On the sofa.", PublishedAt: day.AddDate(0, 0, 3)},
		{Id: 3, UserId: 2, Title: "Cheese", Body: "Found some.", PublishedAt: day.AddDate(0, 0, 4),
			Tags: orm.NewJSONColumn([]string{"food"})},
	}
)

// Seed inserts the sample rows in one transaction.
func Seed(ctx context.Context, db *orm.DB) error {
	return db.DoTx(ctx, func(ctx context.Context, tx *orm.Tx) error {
		if err := orm.NewInserter[Address](tx).Values(Addresses...).Exec(ctx).Err(); err != nil {
			return err
		}
		if err := orm.NewInserter[Profile](tx).Values(Profiles...).Exec(ctx).Err(); err != nil {
			return err
		}
		if err := orm.NewInserter[User](tx).Values(Users...).Exec(ctx).Err(); err != nil {
			return err
		}
		return orm.NewInserter[Post](tx).Values(Posts...).Exec(ctx).Err()
	}, nil)
}
