package pgadapter

import (
	"bytes"
	"database/sql"
	"fmt"
	"strings"

	// Import of lib/pq postgresql driver
	_ "github.com/lib/pq"
	"github.com/pmoros/arbol/dataset/sqldataset"
)

/*
MaxRowInsertionsPerStatement is the maximum number of rows that
are allowed to be added with a single insert command with the
AddRows method of the adapter. Trying to add more will result in
making more insertion commands.
*/
const MaxRowInsertionsPerStatement = 10

type adapter struct {
	db *sql.DB
}

/*
New takes a PostgreSQL database connection URL and returns an
Adapter that works on the URL's database or an error if it fails
to open a connection to it.
*/
func New(url string) (sqldataset.Adapter, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	return &adapter{db}, nil
}

func (a *adapter) ColumnName(columnName string) (string, error) {
	if columnName == "id" {
		return "", fmt.Errorf(`'%s' is reserved and cannot be used as column name`, columnName)
	}
	if strings.ContainsAny(columnName, `"`) {
		return "", fmt.Errorf(`column name '%s' contains invalid character '"'`, columnName)
	}
	return strings.ToLower(columnName), nil
}

func (a *adapter) CreateRowTable(categoricalColumns, continuousColumns []string) error {
	var createStmtBuf bytes.Buffer
	createStmtBuf.WriteString(`CREATE TABLE IF NOT EXISTS rows("id" BIGSERIAL PRIMARY KEY`)
	for _, c := range categoricalColumns {
		createStmtBuf.WriteString(fmt.Sprintf(`, "%s" TEXT NOT NULL`, c))
	}
	for _, c := range continuousColumns {
		createStmtBuf.WriteString(fmt.Sprintf(`, "%s" DOUBLE PRECISION NOT NULL`, c))
	}
	createStmtBuf.WriteString(")")
	_, err := a.db.Exec(createStmtBuf.String())
	if err != nil {
		return fmt.Errorf("ensuring rows table exists: %v", err)
	}
	return nil
}

func (a *adapter) AddRows(rawRows []map[string]interface{}, categoricalColumns, continuousColumns []string) (int, error) {
	if len(rawRows) == 0 {
		return 0, nil
	}
	columns := append(append([]string{}, categoricalColumns...), continuousColumns...)
	inserted := 0
	for inserted < len(rawRows) {
		chunkEnd := inserted + MaxRowInsertionsPerStatement
		if chunkEnd > len(rawRows) {
			chunkEnd = len(rawRows)
		}
		chunk := rawRows[inserted:chunkEnd]
		insertStmt, err := a.db.Prepare(insertStatement(columns, len(chunk)))
		if err != nil {
			return inserted, fmt.Errorf("preparing insert command for %d rows: %v", len(chunk), err)
		}
		args := make([]interface{}, 0, len(chunk)*len(columns))
		for _, rawRow := range chunk {
			for _, c := range columns {
				args = append(args, rawRow[c])
			}
		}
		_, err = insertStmt.Exec(args...)
		if err != nil {
			insertStmt.Close()
			return inserted, fmt.Errorf("inserting %d rows: %v", len(chunk), err)
		}
		err = insertStmt.Close()
		if err != nil {
			return inserted, fmt.Errorf("closing insert command for %d rows: %v", len(chunk), err)
		}
		inserted = chunkEnd
	}
	return inserted, nil
}

func (a *adapter) IterateOnRows(categoricalColumns, continuousColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error {
	columns := append(append([]string{}, categoricalColumns...), continuousColumns...)
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = fmt.Sprintf(`"%s"`, c)
	}
	rows, err := a.db.Query(fmt.Sprintf(`SELECT %s FROM rows ORDER BY id`, strings.Join(quoted, ", ")))
	if err != nil {
		return err
	}
	defer rows.Close()
	for i := 0; rows.Next(); i++ {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for j := range values {
			pointers[j] = &values[j]
		}
		err = rows.Scan(pointers...)
		if err != nil {
			return err
		}
		rawRow := make(map[string]interface{}, len(columns))
		for j, c := range columns {
			rawRow[c] = values[j]
		}
		ok, err := lambda(i, rawRow)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return rows.Err()
}

func (a *adapter) CountRows() (int, error) {
	var count int
	err := a.db.QueryRow(`SELECT COUNT(*) FROM rows`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func insertStatement(columns []string, rowCount int) string {
	var buf bytes.Buffer
	buf.WriteString(`INSERT INTO rows (`)
	for i, c := range columns {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(fmt.Sprintf(`"%s"`, c))
	}
	buf.WriteString(") VALUES ")
	for i := 0; i < rowCount; i++ {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		for j := 0; j < len(columns); j++ {
			if j > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(fmt.Sprintf("$%d", i*len(columns)+j+1))
		}
		buf.WriteString(")")
	}
	return buf.String()
}
