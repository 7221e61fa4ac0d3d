// Package journal is the record store behind the JournalService.
//
// Two implementations share the Repository contract: SQLiteRepository for a
// local database file and PostgresRepository for a remote database reached
// through pgx. Both store the insights and mood-tag lists as JSON arrays and
// keep Title/Content/Insights/Transcript exactly as handed in; they never see
// plaintext unless a row predates encryption.
//
//	repo := journal.NewSQLiteRepository(db)
//	_ = repo.Insert(ctx, rec)
//	recs, _ := repo.ListByOwner(ctx, userID)   // newest first
//	one, err := repo.GetByID(ctx, userID, id) // common.ErrorNotFound when absent
package journal
