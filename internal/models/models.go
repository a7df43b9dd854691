package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Product{},
		&Cart{},
		&CartItem{},
		&GatewayOrder{},
		&Payment{},
		&PaymentItem{},
		&PasswordResetToken{},
	}
}
