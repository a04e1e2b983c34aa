// Package database provides the SQLite backing store for the calibration
// snapshot archive.
//
// The archive is a small, append-mostly dataset: one row per imported device
// calibration, written by the startup sweep and the snapshot API, read by
// the listing and drift-inspection endpoints. SQLite in WAL mode fits that
// shape well; reads proceed while a sweep writes, and a single-connection
// pool sidesteps writer contention entirely.
//
// Schema changes ship as embedded up/down SQL file pairs (see the
// migrations package) and are applied automatically at boot:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migrations are additive only: new columns are nullable or defaulted, and
// nothing is dropped or renamed, so an older binary can still read a newer
// archive file.
package database
