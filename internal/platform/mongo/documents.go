package mongo

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/shop-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names.
const (
	usersCollection    = "users"
	productsCollection = "products"
)

type cartItemDocument struct {
	Product string `bson:"product"`
	Amount  int    `bson:"amount"`
}

type orderDocument struct {
	ID       string             `bson:"_id"`
	Products []cartItemDocument `bson:"products"`
	Date     primitive.DateTime `bson:"date"`
}

type userDocument struct {
	ID             string             `bson:"_id"`
	Account        string             `bson:"account"`
	Email          string             `bson:"email"`
	HashedPassword string             `bson:"password"`
	Role           int                `bson:"role"`
	Tokens         []string           `bson:"tokens"`
	Cart           []cartItemDocument `bson:"cart"`
	Orders         []orderDocument    `bson:"orders"`
	CreatedAt      primitive.DateTime `bson:"createdAt"`
	UpdatedAt      primitive.DateTime `bson:"updatedAt"`
}

type productDocument struct {
	ID          string             `bson:"_id"`
	Name        string             `bson:"name"`
	Price       int64              `bson:"price"`
	Description string             `bson:"description"`
	Image       string             `bson:"image"`
	Sell        bool               `bson:"sell"`
	CreatedAt   primitive.DateTime `bson:"createdAt"`
}

func newUserDocument(u *domain.User) userDocument {
	doc := userDocument{
		ID:             u.ID.String(),
		Account:        u.Account,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		Role:           int(u.Role),
		Tokens:         append([]string{}, u.Tokens...),
		Cart:           newCartDocuments(u.Cart),
		Orders:         make([]orderDocument, 0, len(u.Orders)),
		CreatedAt:      primitive.NewDateTimeFromTime(u.CreatedAt),
		UpdatedAt:      primitive.NewDateTimeFromTime(u.UpdatedAt),
	}
	for _, o := range u.Orders {
		doc.Orders = append(doc.Orders, orderDocument{
			ID:       o.ID.String(),
			Products: newCartDocuments(o.Products),
			Date:     primitive.NewDateTimeFromTime(o.Date),
		})
	}
	return doc
}

func newCartDocuments(items []domain.CartItem) []cartItemDocument {
	docs := make([]cartItemDocument, 0, len(items))
	for _, item := range items {
		docs = append(docs, cartItemDocument{Product: item.ProductID.String(), Amount: item.Amount})
	}
	return docs
}

func (d userDocument) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", d.ID, err)
	}
	cart, err := cartToDomain(d.Cart)
	if err != nil {
		return nil, err
	}
	orders, err := ordersToDomain(d.Orders)
	if err != nil {
		return nil, err
	}

	tokens := d.Tokens
	if tokens == nil {
		tokens = []string{}
	}

	return &domain.User{
		ID:             id,
		Account:        d.Account,
		Email:          d.Email,
		HashedPassword: d.HashedPassword,
		Role:           domain.Role(d.Role),
		Tokens:         tokens,
		Cart:           cart,
		Orders:         orders,
		CreatedAt:      d.CreatedAt.Time().UTC(),
		UpdatedAt:      d.UpdatedAt.Time().UTC(),
	}, nil
}

func cartToDomain(docs []cartItemDocument) ([]domain.CartItem, error) {
	items := make([]domain.CartItem, 0, len(docs))
	for _, d := range docs {
		productID, err := uuid.Parse(d.Product)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q: %w", d.Product, err)
		}
		items = append(items, domain.CartItem{ProductID: productID, Amount: d.Amount})
	}
	return items, nil
}

func ordersToDomain(docs []orderDocument) ([]domain.Order, error) {
	orders := make([]domain.Order, 0, len(docs))
	for _, d := range docs {
		order, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (d orderDocument) toDomain() (domain.Order, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("invalid order id %q: %w", d.ID, err)
	}
	products, err := cartToDomain(d.Products)
	if err != nil {
		return domain.Order{}, err
	}
	return domain.Order{ID: id, Products: products, Date: d.Date.Time().UTC()}, nil
}

func newProductDocument(p *domain.Product) productDocument {
	return productDocument{
		ID:          p.ID.String(),
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Image:       p.Image,
		Sell:        p.Sell,
		CreatedAt:   primitive.NewDateTimeFromTime(p.CreatedAt),
	}
}

func (d productDocument) toDomain() (*domain.Product, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid product id %q: %w", d.ID, err)
	}
	return &domain.Product{
		ID:          id,
		Name:        d.Name,
		Price:       d.Price,
		Description: d.Description,
		Image:       d.Image,
		Sell:        d.Sell,
		CreatedAt:   d.CreatedAt.Time().UTC(),
	}, nil
}
