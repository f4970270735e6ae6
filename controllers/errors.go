package controllers

import "errors"

var (
	ErrNoPermission       = errors.New("you do not have permission to perform this action")
	ErrAlreadyTerminal    = errors.New("status is terminal and cannot change")
	ErrCancelNotAllowed   = errors.New("cancellation is not allowed from the current status")
	ErrInvalidStatus      = errors.New("invalid status value")
	ErrPaymentNotAllowed  = errors.New("payment status change not allowed for this order")
	ErrBusinessMismatch   = errors.New("resource does not belong to this business")
	ErrGatewayUnavailable = errors.New("payment gateway is not configured")
)
