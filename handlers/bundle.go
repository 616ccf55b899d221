package handlers

// HandlerBundle groups the endpoint handlers handed to route registration.
type HandlerBundle struct {
	Booking   *BookingHandler
	Extension *ExtensionHandler
	History   *HistoryHandler
	Payment   *PaymentHandler
}
