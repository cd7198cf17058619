package graphql

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"

	gqlgo "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"go.uber.org/zap"
)

//go:embed schema.graphql
var schemaSDL string

// NewSchema parses the roster schema against resolver.
func NewSchema(resolver *Resolver, maxDepth int) (*gqlgo.Schema, error) {
	opts := []gqlgo.SchemaOpt{
		gqlgo.Logger(panicLogger{log: resolver.log}),
	}
	if maxDepth > 0 {
		opts = append(opts, gqlgo.MaxDepth(maxDepth))
	}
	schema, err := gqlgo.ParseSchema(schemaSDL, resolver, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	return schema, nil
}

// Handler serves GraphQL POST requests for schema.
func Handler(schema *gqlgo.Schema) http.Handler {
	return &relay.Handler{Schema: schema}
}

type panicLogger struct {
	log *zap.Logger
}

func (l panicLogger) LogPanic(ctx context.Context, value interface{}) {
	l.log.Error("Panic while resolving graphql request", zap.Any("panic", value), zap.Stack("stack"))
}
