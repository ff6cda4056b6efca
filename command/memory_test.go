package command_test

import (
	"context"
	"sync"

	"github.com/kauatwn/TicketFlow/command"
	"github.com/kauatwn/TicketFlow/entity"
)

// memoryUnitOfWork mirrors the Postgres unit of work: reads return copies, updates are staged
// and compared against the stored version on commit, so are the shows that were only read.
type memoryUnitOfWork struct {
	mu      sync.Mutex
	shows   map[string]entity.Show
	tickets map[string]entity.Ticket
	events  []any

	// beforeCommit runs after fn succeeded, outside of the lock.
	beforeCommit func()
}

func newMemoryUnitOfWork() *memoryUnitOfWork {
	return &memoryUnitOfWork{
		shows:   map[string]entity.Show{},
		tickets: map[string]entity.Ticket{},
	}
}

func (u *memoryUnitOfWork) addShow(show *entity.Show) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.shows[show.ID] = *show
}

func (u *memoryUnitOfWork) addTicket(ticket *entity.Ticket) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.tickets[ticket.ID] = *ticket
}

func (u *memoryUnitOfWork) ticket(id string) entity.Ticket {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.tickets[id]
}

func (u *memoryUnitOfWork) show(id string) entity.Show {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.shows[id]
}

func (u *memoryUnitOfWork) publishedEvents() []any {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]any(nil), u.events...)
}

func (u *memoryUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx command.Transaction) error) error {
	tx := &memoryTx{uow: u, readShows: map[string]int{}}

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if u.beforeCommit != nil {
		u.beforeCommit()
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	for _, t := range tx.updatedTickets {
		if u.tickets[t.ID].Version != t.Version {
			return entity.NewConcurrencyConflictError()
		}
	}
	for _, s := range tx.updatedShows {
		if u.shows[s.ID].Version != s.Version {
			return entity.NewConcurrencyConflictError()
		}
	}
	for id, version := range tx.readShows {
		if u.shows[id].Version != version {
			return entity.NewConcurrencyConflictError()
		}
	}

	for _, s := range tx.addedShows {
		u.shows[s.ID] = s
	}
	for _, t := range tx.addedTickets {
		u.tickets[t.ID] = t
	}
	for _, t := range tx.updatedTickets {
		t.Version++
		u.tickets[t.ID] = t
	}
	for _, s := range tx.updatedShows {
		s.Version++
		u.shows[s.ID] = s
	}
	u.events = append(u.events, tx.events...)

	return nil
}

type memoryTx struct {
	uow *memoryUnitOfWork

	addedShows     []entity.Show
	addedTickets   []entity.Ticket
	updatedShows   []entity.Show
	updatedTickets []entity.Ticket
	events         []any

	readShows map[string]int
}

func (t *memoryTx) Tickets() command.TicketsRepository { return memoryTickets{t} }
func (t *memoryTx) Shows() command.ShowsRepository     { return memoryShows{t} }
func (t *memoryTx) Events() command.EventPublisher     { return memoryEvents{t} }

type memoryTickets struct{ tx *memoryTx }

func (r memoryTickets) GetByIDWithShow(_ context.Context, ticketID string) (*entity.Ticket, error) {
	r.tx.uow.mu.Lock()
	defer r.tx.uow.mu.Unlock()

	ticket, ok := r.tx.uow.tickets[ticketID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &ticket, nil
}

func (r memoryTickets) Add(_ context.Context, tickets ...*entity.Ticket) error {
	for _, ticket := range tickets {
		r.tx.addedTickets = append(r.tx.addedTickets, *ticket)
	}
	return nil
}

func (r memoryTickets) Update(_ context.Context, ticket *entity.Ticket) error {
	r.tx.updatedTickets = append(r.tx.updatedTickets, *ticket)
	return nil
}

type memoryShows struct{ tx *memoryTx }

func (r memoryShows) GetByID(_ context.Context, showID string) (*entity.Show, error) {
	r.tx.uow.mu.Lock()
	defer r.tx.uow.mu.Unlock()

	show, ok := r.tx.uow.shows[showID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	r.tx.readShows[show.ID] = show.Version
	return &show, nil
}

func (r memoryShows) Add(_ context.Context, show *entity.Show) error {
	r.tx.addedShows = append(r.tx.addedShows, *show)
	return nil
}

func (r memoryShows) Update(_ context.Context, show *entity.Show) error {
	r.tx.updatedShows = append(r.tx.updatedShows, *show)
	return nil
}

type memoryEvents struct{ tx *memoryTx }

func (p memoryEvents) Publish(_ context.Context, event any) error {
	p.tx.events = append(p.tx.events, event)
	return nil
}
