package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart owns its lines; a line's Cart back-reference is nil or this cart.
type Cart struct {
	ID    int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Lines []ProductCart `gorm:"foreignKey:CartID"        json:"lines"`
	User  *UserDetails  `gorm:"foreignKey:CartID"        json:"user,omitempty"`
}

func (Cart) TableName() string { return "cart" }

// ProductCart is one cart line. CreationDatetime is set once at creation.
type ProductCart struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Quantity         int       `gorm:"not null"                 json:"quantity"`
	CreationDatetime time.Time `gorm:"not null;<-:create"       json:"creationDatetime"`
	ProductID        int64     `gorm:"not null;index"           json:"productId"`
	Product          *Product  `                                json:"product,omitempty"`
	CartID           *int64    `gorm:"index"                    json:"cartId"`
	Cart             *Cart     `                                json:"-"`
}

func (ProductCart) TableName() string { return "product_cart" }

func NewLine(product *Product, quantity int, now time.Time) *ProductCart {
	return &ProductCart{
		Quantity:         quantity,
		CreationDatetime: now,
		ProductID:        product.ID,
		Product:          product,
	}
}

// AttachTo points the line at cart without adding it to cart.Lines.
func (l *ProductCart) AttachTo(cart *Cart) {
	if cart == nil {
		l.Cart, l.CartID = nil, nil
		return
	}
	id := cart.ID
	l.Cart, l.CartID = cart, &id
}

func (c *Cart) AddLine(line ProductCart) *Cart {
	line.AttachTo(c)
	c.Lines = append(c.Lines, line)
	return c
}

// RemoveLine detaches the line with the given id and reports whether it was present.
func (c *Cart) RemoveLine(lineID int64) (ProductCart, bool) {
	for i, l := range c.Lines {
		if l.ID != lineID {
			continue
		}
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		l.AttachTo(nil)
		return l, true
	}
	return ProductCart{}, false
}

func (c *Cart) SetLines(lines []ProductCart) {
	for i := range c.Lines {
		c.Lines[i].AttachTo(nil)
	}
	c.Lines = make([]ProductCart, 0, len(lines))
	for _, l := range lines {
		c.AddLine(l)
	}
}

// LinkLines restores back-references after loading lines from storage.
func (c *Cart) LinkLines() {
	for i := range c.Lines {
		c.Lines[i].AttachTo(c)
	}
}

func (c *Cart) FindLineByProduct(productID int64) (*ProductCart, bool) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i], true
		}
	}
	return nil, false
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Total sums price times quantity over lines whose product is loaded.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		if l.Product == nil {
			continue
		}
		total = total.Add(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}
