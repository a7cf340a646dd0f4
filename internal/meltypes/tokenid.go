package meltypes

// TokenId identifies a fungible asset class.
type TokenId uint64

// MEL is the distinguished fee token.
const MEL TokenId = 0
