package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aisleworks/aisle/modules/core/domain/aggregates/user"
	"github.com/aisleworks/aisle/pkg/composables"
)

var testTenantID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

// stubTx satisfies pgx.Tx so the transaction composables run against mock
// repositories without a database. Mocks never touch the connection.
type stubTx struct{}

func (stubTx) Begin(ctx context.Context) (pgx.Tx, error) { return stubTx{}, nil }
func (stubTx) Commit(ctx context.Context) error          { return nil }
func (stubTx) Rollback(ctx context.Context) error        { return nil }
func (stubTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (stubTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (stubTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (stubTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (stubTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (stubTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (stubTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (stubTx) Conn() *pgx.Conn                                               { return nil }

type stubPublisher struct {
	published []interface{}
}

func (s *stubPublisher) Publish(args ...interface{})     { s.published = append(s.published, args...) }
func (s *stubPublisher) Subscribe(handler interface{})   {}
func (s *stubPublisher) Unsubscribe(handler interface{}) {}
func (s *stubPublisher) Clear()                          {}
func (s *stubPublisher) SubscribersCount() int           { return 0 }

func testUser(role user.Role) user.User {
	return user.New(
		string(role)+"@example.com",
		"Test",
		string(role),
		role,
		user.WithID(uuid.New()),
		user.WithTenantID(testTenantID),
	)
}

// testCtx carries everything the service layer expects: tenant, acting user
// and an open transaction.
func testCtx(u user.User) context.Context {
	ctx := composables.WithTenantID(context.Background(), testTenantID)
	ctx = composables.WithTx(ctx, stubTx{})
	if u != nil {
		ctx = composables.WithUser(ctx, u)
	}
	return ctx
}

// allowAllStaffing swaps the guard out so tests exercise service logic, not
// policy evaluation.
func allowAllStaffing() func(ctx context.Context, object, action string) error {
	return func(ctx context.Context, object, action string) error { return nil }
}
