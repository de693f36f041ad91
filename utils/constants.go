// File: utils/constants.go
package utils

// OrderLockPrefix is the prefix used for Redis keys guarding gateway order creation.
const OrderLockPrefix = "payment:order-lock:"

// ContextUserIDKey is the gin context key holding the authenticated user's ID.
const ContextUserIDKey = "userID"
