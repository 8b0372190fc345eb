package tracing

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	log "github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/splitbus/sim"
)

// SQLiteTracer writes finished tasks and their steps into a SQLite database.
// Times are stored as integer picoseconds.
type SQLiteTracer struct {
	*sql.DB

	timeTeller sim.TimeTeller
	path       string
	batchSize  int

	lock          sync.Mutex
	inflightTasks map[string]*Task
	tasksToWrite  []Task
	taskStmt      *sql.Stmt
	stepStmt      *sql.Stmt
}

// NewSQLiteTracer creates a tracer that writes into the database at path. If
// path is empty, a unique file name is generated. The ".sqlite3" suffix is
// appended to the path.
func NewSQLiteTracer(timeTeller sim.TimeTeller, path string) *SQLiteTracer {
	if path == "" {
		path = "splitbus_trace_" + xid.New().String()
	}

	t := &SQLiteTracer{
		timeTeller:    timeTeller,
		path:          path + ".sqlite3",
		batchSize:     10000,
		inflightTasks: make(map[string]*Task),
	}

	return t
}

// Path returns the database file that the tracer writes into.
func (t *SQLiteTracer) Path() string {
	return t.path
}

// Init creates the database file and the tables. The buffered tasks are
// flushed when the program exits through atexit.
func (t *SQLiteTracer) Init() error {
	if _, err := os.Stat(t.path); err == nil {
		return fmt.Errorf("trace file %s already exists", t.path)
	}

	db, err := sql.Open("sqlite3", t.path)
	if err != nil {
		return fmt.Errorf("opening trace database: %w", err)
	}

	t.DB = db

	if err := t.createTables(); err != nil {
		return err
	}

	if err := t.prepareStatements(); err != nil {
		return err
	}

	atexit.Register(func() {
		if err := t.Flush(); err != nil {
			log.WithError(err).Error("flushing trace")
		}
	})

	log.WithField("file", t.path).Info("trace is collected in database")

	return nil
}

func (t *SQLiteTracer) createTables() error {
	stmts := []string{
		`create table trace
		(
			task_id    varchar(200) not null,
			parent_id  varchar(200),
			kind       varchar(100),
			what       varchar(100),
			location   varchar(100),
			start_time integer not null,
			end_time   integer not null
		);`,
		`create index trace_task_id_index on trace (task_id);`,
		`create index trace_kind_index on trace (kind);`,
		`create index trace_location_index on trace (location);`,
		`create table step
		(
			task_id varchar(200) not null,
			what    varchar(100),
			time    integer not null
		);`,
		`create index step_task_id_index on step (task_id);`,
	}

	for _, s := range stmts {
		if _, err := t.Exec(s); err != nil {
			return fmt.Errorf("creating trace tables: %w", err)
		}
	}

	return nil
}

func (t *SQLiteTracer) prepareStatements() error {
	var err error

	t.taskStmt, err = t.Prepare(`INSERT INTO trace VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing trace statement: %w", err)
	}

	t.stepStmt, err = t.Prepare(`INSERT INTO step VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing step statement: %w", err)
	}

	return nil
}

// StartTask records the task start time.
func (t *SQLiteTracer) StartTask(task Task) {
	task.StartTime = t.timeTeller.CurrentTime()

	t.lock.Lock()
	t.inflightTasks[task.ID] = &task
	t.lock.Unlock()
}

// StepTask records the time of the step.
func (t *SQLiteTracer) StepTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	original, ok := t.inflightTasks[task.ID]
	if !ok {
		return
	}

	step := task.Steps[0]
	step.Time = t.timeTeller.CurrentTime()
	original.Steps = append(original.Steps, step)
}

// EndTask buffers the finished task. A full buffer is written to the
// database.
func (t *SQLiteTracer) EndTask(task Task) {
	t.lock.Lock()

	original, ok := t.inflightTasks[task.ID]
	if !ok {
		t.lock.Unlock()
		return
	}

	delete(t.inflightTasks, task.ID)
	original.EndTime = t.timeTeller.CurrentTime()
	t.tasksToWrite = append(t.tasksToWrite, *original)
	full := len(t.tasksToWrite) >= t.batchSize
	t.lock.Unlock()

	if full {
		if err := t.Flush(); err != nil {
			log.WithError(err).Panic("writing trace")
		}
	}
}

// Flush writes all the buffered tasks to the database in one transaction.
func (t *SQLiteTracer) Flush() error {
	t.lock.Lock()
	tasks := t.tasksToWrite
	t.tasksToWrite = nil
	t.lock.Unlock()

	if len(tasks) == 0 || t.DB == nil {
		return nil
	}

	tx, err := t.Begin()
	if err != nil {
		return err
	}

	taskStmt := tx.Stmt(t.taskStmt)
	stepStmt := tx.Stmt(t.stepStmt)

	for _, task := range tasks {
		_, err := taskStmt.Exec(
			task.ID,
			task.ParentID,
			task.Kind,
			task.What,
			task.Location,
			int64(task.StartTime),
			int64(task.EndTime),
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("inserting task %s: %w", task.ID, err)
		}

		for _, step := range task.Steps {
			_, err := stepStmt.Exec(task.ID, step.What, int64(step.Time))
			if err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("inserting step of task %s: %w", task.ID, err)
			}
		}
	}

	return tx.Commit()
}

// Close flushes the remaining tasks and closes the database.
func (t *SQLiteTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}

	if t.DB == nil {
		return nil
	}

	return t.DB.Close()
}
