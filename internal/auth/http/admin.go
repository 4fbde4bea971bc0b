package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/freshmart/pkg/httpx"
	"github.com/aussiebroadwan/freshmart/pkg/slogx"
)

type cartItemPayload struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	UpdatedAt int64 `json:"updated_at"`
}

// handleAdminUserCart lists a user's cart for support staff. Admin only.
func (r *Router) handleAdminUserCart(w http.ResponseWriter, req *http.Request) {
	userID, err := strconv.ParseInt(req.PathValue("id"), 10, 64)
	if err != nil || userID <= 0 {
		httpx.WriteMessage(w, http.StatusBadRequest, "A numeric user id is required")
		return
	}

	items, err := r.store.Carts().ListByUser(req.Context(), userID)
	if err != nil {
		slogx.FromContext(req.Context()).Error("cart lookup failed", "user_id", userID, "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	payload := make([]cartItemPayload, 0, len(items))
	for _, item := range items {
		payload = append(payload, cartItemPayload{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UpdatedAt: item.UpdatedAt.Unix(),
		})
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Response{
		Status:  http.StatusOK,
		Message: "Cart retrieved successfully",
		Data:    payload,
	})
}
