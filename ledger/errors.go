/*
errors.go - Centralized error types for the console

PURPOSE:
  The engine itself never raises for data-shape problems (it normalizes,
  clamps, or no-ops instead). These sentinels exist for the boundary
  layers - stores and HTTP handlers - which DO need to distinguish
  "missing record" from "store fault".

USAGE:
  if errors.Is(err, ledger.ErrSaleNotFound) {
      writeError(w, http.StatusNotFound, "Sale not found", nil)
  }
*/
package ledger

import "errors"

var (
	// ErrItemNotFound is returned by stores when an inventory item id does
	// not exist. Quantity deltas against missing items do NOT return this;
	// they silently no-op, matching the legacy name-linkage behavior.
	ErrItemNotFound = errors.New("inventory item not found")

	// ErrSaleNotFound is returned when a sale id does not exist.
	ErrSaleNotFound = errors.New("sale not found")

	// ErrClientNotFound is returned when a client id does not exist.
	ErrClientNotFound = errors.New("client not found")

	// ErrSellerNotFound is returned when a seller id does not exist.
	ErrSellerNotFound = errors.New("seller not found")

	// ErrShipmentNotFound is returned when a shipment id does not exist.
	ErrShipmentNotFound = errors.New("shipment not found")

	// ErrInvalidQuantity is the boundary-layer rejection for sale lines
	// with qty <= 0. The recorder assumes the gate already ran.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

// IsNotFound reports whether err indicates a missing record of any kind.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrSaleNotFound) ||
		errors.Is(err, ErrClientNotFound) ||
		errors.Is(err, ErrSellerNotFound) ||
		errors.Is(err, ErrShipmentNotFound)
}
