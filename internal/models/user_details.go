package models

type UserDetails struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"                  json:"id"`
	Login     string    `gorm:"size:100;not null;uniqueIndex"             json:"login"`
	CartID    *int64    `gorm:"uniqueIndex"                               json:"cartId,omitempty"`
	Cart      *Cart     `                                                 json:"-"`
	Favorites []Product `gorm:"many2many:rel_user_details__favorites"     json:"favorites,omitempty"`
}

func (UserDetails) TableName() string { return "user_details" }

func (u *UserDetails) FavoriteIndex(productID int64) int {
	for i, p := range u.Favorites {
		if p.ID == productID {
			return i
		}
	}
	return -1
}

// All lists every entity in migration order.
func All() []any {
	return []any{&Category{}, &Product{}, &Cart{}, &UserDetails{}, &ProductCart{}}
}
