// Package example holds the sample admin model served by adminql.
package example

import (
	"time"

	"adminql/internal/resolver"
	"adminql/orm"
)

type User struct {
	Id        int64     `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Bio       string    `json:"bio" front:"text:long,placeholder=Tell us about yourself,search,order=3"`
	CreatedAt time.Time `json:"createdAt" front:"object,format=YYYY-MM-DD,readonly,header,order=2"`
	ProfileId int64     `json:"profileId"`
	Profile   *Profile  `json:"profile,omitempty" front:"map,show=Nickname,header,search,order=1"`
	Posts     []*Post   `json:"posts,omitempty"`
}

func (User) TableName() string {
	return "users"
}

type Profile struct {
	Id        int64    `json:"id"`
	Nickname  string   `json:"nickname"`
	AddressId int64    `json:"addressId"`
	Address   *Address `json:"address,omitempty" front:"map,show=City"`
}

func (Profile) TableName() string {
	return "profiles"
}

type Address struct {
	Id   int64  `json:"id"`
	City string `json:"city"`
}

func (Address) TableName() string {
	return "addresses"
}

type Post struct {
	Id          int64                    `json:"id"`
	UserId      int64                    `json:"userId"`
	Title       string                   `json:"title"`
	Body        string                   `json:"body" front:"text:long,placeholder=Write something"`
	PublishedAt time.Time                `json:"publishedAt" front:"object,format=YYYY-MM-DD HH:mm,header"`
	Tags        orm.JSONColumn[[]string] `json:"tags"`
}

func (Post) TableName() string {
	return "posts"
}

// Entities lists the queryable entities by their GraphQL field name.
func Entities() []resolver.Entity {
	return []resolver.Entity{
		resolver.NewEntity[User]("users"),
		resolver.NewEntity[Profile]("profiles"),
		resolver.NewEntity[Address]("addresses"),
		resolver.NewEntity[Post]("posts"),
	}
}
