package queries

import (
	"embed"
	"fmt"
)

//go:embed delete/*.sql schema/*.sql select/*.sql upsert/*.sql
var Files embed.FS

// ^^^ the go:embed directive is used to embed the files in the queries package
// meaning on compile time it will convert the files to binary data and embed it in the queries package

type DeleteQueries struct {
	ClosePricesBySourceId string
}

type SchemaQueries struct {
	CreateTables string
}

type SelectQueries struct {
	ClosePrices      string
	MetaDataBySymbol string
}

type UpsertQueries struct {
	MetaData string
}

type QueryHelperStruct struct {
	Delete DeleteQueries
	Schema SchemaQueries
	Select SelectQueries
	Upsert UpsertQueries
}

var QueryHelper = QueryHelperStruct{
	Delete: DeleteQueries{
		ClosePricesBySourceId: "delete/close_prices_by_source_id.sql",
	},
	Schema: SchemaQueries{
		CreateTables: "schema/create_tables.sql",
	},
	Select: SelectQueries{
		ClosePrices:      "select/close_prices.sql",
		MetaDataBySymbol: "select/meta_data_by_symbol.sql",
	},
	Upsert: UpsertQueries{
		MetaData: "upsert/meta_data.sql",
	},
}

func Get(path string) string {
	content, err := Files.ReadFile(path)
	if err != nil {
		panic(fmt.Errorf("error reading query file: %w", err))
	}

	return string(content)
}
