// internal/db/mongo.go
package db

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoDriver implements Driver for MongoDB. Query text is an extended-JSON
// command document, e.g. {"find": "users", "limit": 10}, run through
// runCommand against the database named in the connection URL.
type MongoDriver struct {
	client *mongo.Client
	dbName string
}

// Commands whose reply carries a cursor that must be drained
var cursorCommands = map[string]bool{
	"find":            true,
	"aggregate":       true,
	"listCollections": true,
	"listIndexes":     true,
}

// Connect establishes connection to MongoDB
func (d *MongoDriver) Connect(ctx context.Context, rawURL string) error {
	dbName, err := mongoDatabaseName(rawURL)
	if err != nil {
		return WrapConnectionError(err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(rawURL))
	if err != nil {
		return WrapConnectionError(err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return WrapConnectionError(err)
	}

	d.client = client
	d.dbName = dbName
	return nil
}

// mongoDatabaseName extracts the database path segment from a mongodb URL
func mongoDatabaseName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		name = "admin"
	}
	return name, nil
}

// Close disconnects the client
func (d *MongoDriver) Close() error {
	if d.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return d.client.Disconnect(ctx)
	}
	return nil
}

// Execute parses the query as a command document and runs it
func (d *MongoDriver) Execute(ctx context.Context, query string) (*QueryResult, error) {
	if d.client == nil {
		return nil, WrapConnectionError(fmt.Errorf("not connected"))
	}

	var cmd bson.D
	if err := bson.UnmarshalExtJSON([]byte(query), false, &cmd); err != nil {
		return nil, WrapQueryError(fmt.Errorf("command must be a JSON document: %w", err))
	}
	if len(cmd) == 0 {
		return nil, WrapQueryError(fmt.Errorf("empty command document"))
	}

	start := time.Now()
	database := d.client.Database(d.dbName)

	if cursorCommands[cmd[0].Key] {
		cursor, err := database.RunCommandCursor(ctx, cmd)
		if err != nil {
			return nil, WrapQueryError(err)
		}
		defer cursor.Close(ctx)
		return collectCursor(ctx, cursor, start)
	}

	var reply bson.Raw
	if err := database.RunCommand(ctx, cmd).Decode(&reply); err != nil {
		return nil, WrapQueryError(err)
	}
	return replyResult(reply, start), nil
}

// collectCursor drains a command cursor into tabular form. Column order is
// first-seen order across all documents.
func collectCursor(ctx context.Context, cursor *mongo.Cursor, start time.Time) (*QueryResult, error) {
	var columns []string
	seen := map[string]int{}
	var docs []map[string]string

	for cursor.Next(ctx) {
		elements, err := cursor.Current.Elements()
		if err != nil {
			return nil, WrapQueryError(err)
		}
		doc := make(map[string]string, len(elements))
		for _, el := range elements {
			key := el.Key()
			if _, ok := seen[key]; !ok {
				seen[key] = len(columns)
				columns = append(columns, key)
			}
			doc[key] = formatBSONValue(el.Value())
		}
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, WrapQueryError(err)
	}

	rows := make([][]string, len(docs))
	for i, doc := range docs {
		row := make([]string, len(columns))
		for j, col := range columns {
			if v, ok := doc[col]; ok {
				row[j] = v
			} else {
				row[j] = "NULL"
			}
		}
		rows[i] = row
	}

	return &QueryResult{
		Columns:  columns,
		Rows:     rows,
		ExecTime: time.Since(start),
		RowCount: len(rows),
		IsSelect: true,
	}, nil
}

// replyResult renders a non-cursor command reply as a single-row table
func replyResult(reply bson.Raw, start time.Time) *QueryResult {
	res := &QueryResult{
		ExecTime: time.Since(start),
		IsSelect: false,
	}

	elements, err := reply.Elements()
	if err != nil {
		return res
	}

	var columns, row []string
	for _, el := range elements {
		columns = append(columns, el.Key())
		row = append(row, formatBSONValue(el.Value()))
		if el.Key() == "n" {
			if n, ok := el.Value().AsInt64OK(); ok {
				res.AffectedRows = n
			}
		}
	}
	res.Columns = columns
	res.Rows = [][]string{row}
	res.RowCount = 1
	return res
}

// formatBSONValue converts a BSON value to display text
func formatBSONValue(v bson.RawValue) string {
	switch v.Type {
	case bson.TypeNull, bson.TypeUndefined:
		return "NULL"
	case bson.TypeString:
		return v.StringValue()
	case bson.TypeObjectID:
		return v.ObjectID().Hex()
	case bson.TypeDateTime:
		return v.Time().UTC().Format(time.RFC3339)
	case bson.TypeBoolean:
		if v.Boolean() {
			return "true"
		}
		return "false"
	case bson.TypeInt32:
		return fmt.Sprintf("%d", v.Int32())
	case bson.TypeInt64:
		return fmt.Sprintf("%d", v.Int64())
	case bson.TypeDouble:
		return fmt.Sprintf("%g", v.Double())
	default:
		// Embedded documents, arrays, decimals: extended JSON form
		return v.String()
	}
}

// Ping checks if the server is reachable
func (d *MongoDriver) Ping(ctx context.Context) error {
	if d.client == nil {
		return WrapConnectionError(fmt.Errorf("not connected"))
	}
	return d.client.Ping(ctx, readpref.Primary())
}

// Type returns the driver type
func (d *MongoDriver) Type() DriverType {
	return MongoDB
}
