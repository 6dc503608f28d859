package httppresentation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	appcart "github.com/Jfdeev/eccomerce-qualidade-software/internal/application/cart"
	appcatalog "github.com/Jfdeev/eccomerce-qualidade-software/internal/application/catalog"
	apporder "github.com/Jfdeev/eccomerce-qualidade-software/internal/application/order"
	appuser "github.com/Jfdeev/eccomerce-qualidade-software/internal/application/user"
	domcart "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/cart"
	domcatalog "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/catalog"
	domorder "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/order"
	domuser "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/user"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/observability"
)

const componentHTTPHandler = "http_server"

type Handler struct {
	catalogService *appcatalog.Service
	cartService    *appcart.Service
	orderService   *apporder.Service
	userService    *appuser.Service
	log            observability.Logger
	tel            observability.Observability
}

func NewHandler(
	catalogSvc *appcatalog.Service,
	cartSvc *appcart.Service,
	orderSvc *apporder.Service,
	userSvc *appuser.Service,
	tel observability.Observability,
) *Handler {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Handler{
		catalogService: catalogSvc,
		cartService:    cartSvc,
		orderService:   orderSvc,
		userService:    userSvc,
		log:            tel.Logger().With(observability.F("component", componentHTTPHandler)),
		tel:            tel,
	}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	h.muxHandle(mux, "GET /health", h.handleHealth)

	h.muxHandle(mux, "GET /api/products", h.handleListProducts)
	h.muxHandle(mux, "GET /api/products/categories", h.handleListCategories)
	h.muxHandle(mux, "GET /api/products/{id}", h.handleGetProduct)

	h.muxHandle(mux, "POST /api/users/register", h.handleRegister)
	h.muxHandle(mux, "POST /api/users/login", h.handleLogin)
	h.muxHandle(mux, "GET /api/users/{id}", h.handleGetUser)
	h.muxHandle(mux, "PUT /api/users/{id}", h.handleUpdateUser)

	h.muxHandle(mux, "GET /api/cart/{user_id}", h.handleGetCart)
	h.muxHandle(mux, "POST /api/cart/{user_id}/items", h.handleAddCartItem)
	h.muxHandle(mux, "PUT /api/cart/{user_id}/items", h.handleUpdateCartItem)
	h.muxHandle(mux, "DELETE /api/cart/{user_id}/items", h.handleRemoveCartItem)
	h.muxHandle(mux, "DELETE /api/cart/{user_id}", h.handleClearCart)

	h.muxHandle(mux, "POST /api/orders", h.handleCreateOrder)
	h.muxHandle(mux, "GET /api/orders/user/{user_id}", h.handleGetUserOrders)
	h.muxHandle(mux, "GET /api/orders/{id}", h.handleGetOrder)
	h.muxHandle(mux, "PUT /api/orders/{id}/cancel", h.handleCancelOrder)

	return mux
}

// muxHandle registers a route with the observability middleware chain and
// stores the route pattern for low-cardinality labels.
func (h *Handler) muxHandle(mux *http.ServeMux, pattern string, handler http.HandlerFunc) {
	wrapped := ObservabilityMiddleware(h.log, h.tel)(handler)
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(contextWithRoute(r.Context(), pattern))
		wrapped.ServeHTTP(w, r)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- catalog

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := appcatalog.Filter{
		Category: query.Get("category"),
		Gender:   query.Get("gender"),
		Size:     query.Get("size"),
		Search:   query.Get("search"),
	}

	var err error
	if filter.MinPrice, err = parseOptionalCents(query.Get("min_price")); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if filter.MaxPrice, err = parseOptionalCents(query.Get("max_price")); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	products, err := h.catalogService.FilterProducts(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductListResponse(products))
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.Categories(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// --- users

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, errors.New("email and password are required"))
		return
	}

	created, err := h.userService.Register(r.Context(), appuser.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(created))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	account, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(account))
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	account, err := h.userService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(account))
}

type updateUserRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	account, err := h.userService.UpdateProfile(r.Context(), r.PathValue("id"), appuser.UpdateProfileInput{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(account))
}

// --- cart

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartService.Get(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(cart))
}

type addCartItemRequest struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	UnitPrice   int64  `json:"unit_price"`
}

func (h *Handler) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cart, err := h.cartService.AddItem(r.Context(), r.PathValue("user_id"), domcart.Item{
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		Size:        req.Size,
		Color:       req.Color,
		UnitPrice:   req.UnitPrice,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(cart))
}

type updateCartItemRequest struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cart, err := h.cartService.UpdateQuantity(r.Context(), r.PathValue("user_id"),
		req.ProductID, req.Size, req.Color, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(cart))
}

type removeCartItemRequest struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

func (h *Handler) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	var req removeCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cart, err := h.cartService.RemoveItem(r.Context(), r.PathValue("user_id"),
		req.ProductID, req.Size, req.Color)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cartService.Clear(r.Context(), r.PathValue("user_id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}

// --- orders

type createOrderRequest struct {
	UserID          string `json:"user_id"`
	ShippingAddress string `json:"shipping_address"`
}

// handleCreateOrder is the checkout: the user's cart becomes an order, stock
// is committed, and the cart is cleared.
func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, errors.New("user_id is required"))
		return
	}

	cart, err := h.cartService.Get(r.Context(), req.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	order, err := h.orderService.CreateOrderFromCart(r.Context(), cart, req.ShippingAddress)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.cartService.Clear(r.Context(), req.UserID); err != nil {
		// The order is already placed; the stale cart is an inconvenience,
		// not a failure.
		h.log.Warn("cart_clear_failed",
			observability.F("user_id", req.UserID),
			observability.F("order_id", order.ID),
			observability.F("error", err.Error()),
		)
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) handleGetUserOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.GetUserOrders(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderListResponse(orders))
}

func (h *Handler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.CancelOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// --- helpers

func parseOptionalCents(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.New("price filters must be integer cents")
	}
	return &value, nil
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domcatalog.ErrNotFound),
		errors.Is(err, domorder.ErrNotFound),
		errors.Is(err, domuser.ErrNotFound),
		errors.Is(err, domcart.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domcatalog.ErrInsufficientStock),
		errors.Is(err, domcatalog.ErrInvalidQuantity),
		errors.Is(err, domcart.ErrEmptyCart),
		errors.Is(err, domcart.ErrInvalidQuantity),
		errors.Is(err, domorder.ErrNoItems),
		errors.Is(err, domorder.ErrInvalidTransition):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, domuser.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, domuser.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
