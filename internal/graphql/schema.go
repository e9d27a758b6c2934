package graphql

import (
	_ "embed"

	gql "github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var Schema string

const maxQueryDepth = 8

// NewSchema связывает SDL с резолверами; несоответствие сигнатур обнаруживается здесь, а не на запросе
func NewSchema(r *Resolver) (*gql.Schema, error) {
	return gql.ParseSchema(Schema, r, gql.MaxDepth(maxQueryDepth))
}
