package application

// User-facing notification texts. Unexpected failures collapse into the generic
// per-operation message; the cause only reaches logs.
const (
	MsgStockExceeded      = "requested quantity exceeds stock"
	MsgProductUnavailable = "product no longer exists"
	MsgNotInCart          = "product not in cart"
	MsgAddFailed          = "failed to add product"
	MsgRemoveFailed       = "failed to remove product"
	MsgUpdateFailed       = "failed to update product amount"
)
