package models

type User struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Favorites []string `json:"favorites"`
}

type Profile struct {
	Name    string   `json:"name"`
	Recipes []Recipe `json:"recipes"`
}
