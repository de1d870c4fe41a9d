package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodkart/backend/internal/cart"
	"github.com/foodkart/backend/internal/catalog"
	"github.com/foodkart/backend/internal/entity"
	"github.com/foodkart/backend/internal/repository"
)

type fakeOrderRepo struct {
	orders     []entity.Order
	failCreate error
}

func (r *fakeOrderRepo) Create(_ context.Context, order *entity.Order) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	// newest first
	r.orders = append([]entity.Order{*order}, r.orders...)
	return nil
}

func (r *fakeOrderRepo) FindByUser(_ context.Context, userID string) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) FindAll(_ context.Context) ([]entity.Order, error) {
	return append([]entity.Order(nil), r.orders...), nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, orderID string, status entity.Status) (string, error) {
	for i := range r.orders {
		if r.orders[i].ID == orderID {
			r.orders[i].Status = status
			return r.orders[i].UserID, nil
		}
	}
	return "", repository.ErrNotFound
}

type fakeRoles struct {
	admins map[string]bool
}

func (f *fakeRoles) IsAdmin(_ context.Context, userID string) (bool, error) {
	return f.admins[userID], nil
}

type publishedEvent struct {
	topic string
	key   string
	event entity.Event
}

type fakePublisher struct {
	events []publishedEvent
	fail   error
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic, key string, event entity.Event) error {
	if p.fail != nil {
		return p.fail
	}
	p.events = append(p.events, publishedEvent{topic: topic, key: key, event: event})
	return nil
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]entity.FoodItem{
		{ID: "itemA", Name: "Beef Biryani", Image: "biryani.jpg", Price: 100},
		{ID: "itemB", Name: "Mango Smoothie", Image: "smoothie.jpg", Price: 50},
	})
}

func validDetails() CheckoutDetails {
	return CheckoutDetails{
		Street: "12 Lake Road",
		City:   "Dhaka",
		State:  "Dhaka",
		Zip:    "1212",
		Phone:  "01700000000",
	}
}

func newTestOrders() (*Orders, *fakeOrderRepo, *fakePublisher) {
	repo := &fakeOrderRepo{}
	pub := &fakePublisher{}
	svc := NewOrders(repo, &fakeRoles{admins: map[string]bool{"admin-1": true}}, pub)
	return svc, repo, pub
}

func TestPlaceComputesTotalsAndClearsCart(t *testing.T) {
	svc, repo, pub := newTestOrders()

	c := cart.New(testCatalog())
	c.Add("itemA")
	c.Add("itemA")
	c.Add("itemB")

	order, err := svc.Place(context.Background(), "user-1", c, validDetails())
	require.NoError(t, err)

	// 2*100 + 1*50 + flat fee 50
	assert.Equal(t, int64(300), order.TotalAmount)
	assert.Equal(t, entity.StatusPending, order.Status)
	assert.Equal(t, "user-1", order.UserID)
	assert.Equal(t, DefaultPaymentMethod, order.PaymentMethod)
	assert.NotEmpty(t, order.ID)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Beef Biryani", order.Items[0].FoodName)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, int64(100), order.Items[0].Price)
	assert.Equal(t, "Mango Smoothie", order.Items[1].FoodName)
	assert.Equal(t, 1, order.Items[1].Quantity)

	// Cart is empty immediately after a successful submission.
	assert.Equal(t, 0, c.TotalItems())

	require.Len(t, repo.orders, 1)
	require.Len(t, pub.events, 1)
	placed, ok := pub.events[0].event.(entity.OrderPlaced)
	require.True(t, ok)
	assert.Equal(t, order.ID, placed.OrderID)
	assert.Equal(t, int64(300), placed.TotalAmount)
}

func TestPlaceKeepsExplicitPaymentMethod(t *testing.T) {
	svc, _, _ := newTestOrders()

	c := cart.New(testCatalog())
	c.Add("itemA")

	details := validDetails()
	details.PaymentMethod = "card"

	order, err := svc.Place(context.Background(), "user-1", c, details)
	require.NoError(t, err)
	assert.Equal(t, "card", order.PaymentMethod)
}

func TestPlaceEmptyCartRejectedBeforeWrite(t *testing.T) {
	svc, repo, pub := newTestOrders()

	c := cart.New(testCatalog())
	_, err := svc.Place(context.Background(), "user-1", c, validDetails())

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, repo.orders)
	assert.Empty(t, pub.events)
}

func TestPlaceRequiresOwner(t *testing.T) {
	svc, repo, _ := newTestOrders()

	c := cart.New(testCatalog())
	c.Add("itemA")

	_, err := svc.Place(context.Background(), "", c, validDetails())
	assert.ErrorIs(t, err, ErrNotSignedIn)
	assert.Empty(t, repo.orders)
	assert.Equal(t, 1, c.TotalItems())
}

func TestPlaceMissingDeliveryFields(t *testing.T) {
	blank := func(mutate func(*CheckoutDetails)) CheckoutDetails {
		d := validDetails()
		mutate(&d)
		return d
	}

	cases := []struct {
		name    string
		details CheckoutDetails
	}{
		{"street", blank(func(d *CheckoutDetails) { d.Street = "" })},
		{"city", blank(func(d *CheckoutDetails) { d.City = "" })},
		{"state", blank(func(d *CheckoutDetails) { d.State = "" })},
		{"zip", blank(func(d *CheckoutDetails) { d.Zip = "" })},
		{"phone", blank(func(d *CheckoutDetails) { d.Phone = "" })},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _ := newTestOrders()
			c := cart.New(testCatalog())
			c.Add("itemA")

			_, err := svc.Place(context.Background(), "user-1", c, tc.details)
			assert.ErrorIs(t, err, ErrMissingField)
			assert.Empty(t, repo.orders)
			// The cart must survive the failed attempt.
			assert.Equal(t, 1, c.TotalItems())
		})
	}
}

func TestPlaceKeepsCartOnStoreFailure(t *testing.T) {
	svc, repo, pub := newTestOrders()
	repo.failCreate = errors.New("connection reset")

	c := cart.New(testCatalog())
	c.Add("itemA")
	c.Add("itemB")

	_, err := svc.Place(context.Background(), "user-1", c, validDetails())
	require.Error(t, err)

	assert.Equal(t, 2, c.TotalItems())
	assert.Empty(t, pub.events)
}

func TestPlacePublishFailureDoesNotFailCheckout(t *testing.T) {
	svc, repo, pub := newTestOrders()
	pub.fail = errors.New("broker down")

	c := cart.New(testCatalog())
	c.Add("itemA")

	order, err := svc.Place(context.Background(), "user-1", c, validDetails())
	require.NoError(t, err)
	assert.NotNil(t, order)
	assert.Len(t, repo.orders, 1)
	assert.Equal(t, 0, c.TotalItems())
}

func TestSetStatus(t *testing.T) {
	svc, repo, pub := newTestOrders()
	repo.orders = []entity.Order{
		{ID: "order-1", UserID: "user-1", Status: entity.StatusPending},
	}

	err := svc.SetStatus(context.Background(), "admin-1", "order-1", entity.StatusDelivered)
	require.NoError(t, err)

	all, err := svc.All(context.Background(), "admin-1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, entity.StatusDelivered, all[0].Status)

	require.Len(t, pub.events, 1)
	changed, ok := pub.events[0].event.(entity.OrderStatusChanged)
	require.True(t, ok)
	assert.Equal(t, "order-1", changed.OrderID)
	assert.Equal(t, "user-1", changed.UserID)
	assert.Equal(t, entity.StatusDelivered, changed.Status)
}

func TestSetStatusLastWriteWins(t *testing.T) {
	svc, repo, _ := newTestOrders()
	repo.orders = []entity.Order{
		{ID: "order-1", UserID: "user-1", Status: entity.StatusPending},
	}

	require.NoError(t, svc.SetStatus(context.Background(), "admin-1", "order-1", entity.StatusCancelled))
	require.NoError(t, svc.SetStatus(context.Background(), "admin-1", "order-1", entity.StatusConfirmed))

	assert.Equal(t, entity.StatusConfirmed, repo.orders[0].Status)
}

func TestSetStatusRequiresAdmin(t *testing.T) {
	svc, repo, pub := newTestOrders()
	repo.orders = []entity.Order{
		{ID: "order-1", UserID: "user-1", Status: entity.StatusPending},
	}

	err := svc.SetStatus(context.Background(), "user-1", "order-1", entity.StatusDelivered)
	assert.ErrorIs(t, err, ErrNotAdmin)
	assert.Equal(t, entity.StatusPending, repo.orders[0].Status)
	assert.Empty(t, pub.events)
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	svc, repo, pub := newTestOrders()
	repo.orders = []entity.Order{
		{ID: "order-1", UserID: "user-1", Status: entity.StatusPending},
	}

	err := svc.SetStatus(context.Background(), "admin-1", "order-1", entity.Status("shipped"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, entity.StatusPending, repo.orders[0].Status)
	assert.Empty(t, pub.events)
}

func TestSetStatusUnknownOrder(t *testing.T) {
	svc, _, pub := newTestOrders()

	err := svc.SetStatus(context.Background(), "admin-1", "no-such-order", entity.StatusConfirmed)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, pub.events)
}

func TestAllRequiresAdmin(t *testing.T) {
	svc, _, _ := newTestOrders()

	_, err := svc.All(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrNotAdmin)

	_, err = svc.All(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestForUserScopesToOwner(t *testing.T) {
	svc, repo, _ := newTestOrders()
	repo.orders = []entity.Order{
		{ID: "order-2", UserID: "user-2"},
		{ID: "order-1", UserID: "user-1"},
	}

	orders, err := svc.ForUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "order-1", orders[0].ID)
}
