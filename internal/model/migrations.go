package model

// Models lists every table owned by this service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&Book{},
		&BookChunk{},
	}
}
