package gateway

import (
	"github.com/graphql-go/graphql"
)

// NewSchema monta o schema do gateway sobre o Resolver: os tipos Bodega e
// Producto, as queries de leitura e a mutação crearProducto. O contrato dos
// campos é estável; só a estratégia de resolução pode variar.
func NewSchema(r *Resolver) (graphql.Schema, error) {

	productoType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Producto",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.ID},
			"sku":      &graphql.Field{Type: graphql.String},
			"nombre":   &graphql.Field{Type: graphql.String},
			"stock":    &graphql.Field{Type: graphql.Int},
			"precio":   &graphql.Field{Type: graphql.Float}, // decimal -> Float no GraphQL
			"bodegaId": &graphql.Field{Type: graphql.ID},
		},
	})

	bodegaType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bodega",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.ID},
			"codigo":    &graphql.Field{Type: graphql.String},
			"nombre":    &graphql.Field{Type: graphql.String},
			"direccion": &graphql.Field{Type: graphql.String},
			"productos": &graphql.Field{
				Type:    graphql.NewList(productoType),
				Resolve: r.BodegaProductos, // resolver aninhado
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"productos": &graphql.Field{
				Type: graphql.NewList(productoType),
				Args: graphql.FieldConfigArgument{
					"bodegaId": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: r.Productos,
			},
			"producto": &graphql.Field{
				Type: productoType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: r.Producto,
			},
			"bodegas": &graphql.Field{
				Type:    graphql.NewList(bodegaType),
				Resolve: r.Bodegas,
			},
			"bodega": &graphql.Field{
				Type: bodegaType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: r.Bodega,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"crearProducto": &graphql.Field{
				Type: productoType,
				Args: graphql.FieldConfigArgument{
					"sku":      &graphql.ArgumentConfig{Type: graphql.String},
					"nombre":   &graphql.ArgumentConfig{Type: graphql.String},
					"stock":    &graphql.ArgumentConfig{Type: graphql.Int},
					"precio":   &graphql.ArgumentConfig{Type: graphql.Float},
					"bodegaId": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: r.CrearProducto,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
