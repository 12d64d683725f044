package models

type User struct {
	ID        string `bson:"_id,omitempty" json:"id"`
	UserName  string `bson:"userName" json:"userName"`
	Email     string `bson:"email" json:"email"`
	Image     string `bson:"image,omitempty" json:"image,omitempty"`
	TimeModel `bson:",inline"`
}
