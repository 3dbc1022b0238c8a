package domain

// Kind names one of the four entity kinds.
type Kind string

const (
	KindUser      Kind = "user"
	KindProduct   Kind = "product"
	KindOrder     Kind = "order"
	KindOrderItem Kind = "order_item"
)

// Ref addresses one row.
type Ref struct {
	Kind Kind
	ID   uint64
}

// Tables lists the persistent models in dependency order.
var Tables = []interface{}{
	&User{},
	&Product{},
	&Order{},
	&OrderItem{},
}
