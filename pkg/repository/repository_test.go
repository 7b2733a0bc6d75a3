package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shareit/pkg/database"
	"shareit/pkg/models"
)

var now = time.Date(2030, 1, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	repo    *Repo
	owner   models.User
	booker  models.User
	item    models.Item
	other   models.Item
	past    models.Booking
	current models.Booking
	future  models.Booking
	waiting models.Booking
	reject  models.Booking
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{repo: New(database.OpenTest(t))}

	f.owner = models.User{Name: "Owner", Email: "owner@mail.ru"}
	f.booker = models.User{Name: "Booker", Email: "booker@mail.ru"}
	require.NoError(t, f.repo.CreateUser(ctx, &f.owner))
	require.NoError(t, f.repo.CreateUser(ctx, &f.booker))

	f.item = models.Item{Name: "Drill", Description: "Cordless 18V", Available: true, OwnerID: f.owner.ID}
	f.other = models.Item{Name: "Ladder", Description: "Aluminium, 3m", Available: false, OwnerID: f.owner.ID}
	require.NoError(t, f.repo.CreateItem(ctx, &f.item))
	require.NoError(t, f.repo.CreateItem(ctx, &f.other))

	day := 24 * time.Hour
	mk := func(b *models.Booking, start, end time.Time, status models.BookingStatus) {
		*b = models.Booking{StartAt: start, EndAt: end, ItemID: f.item.ID, BookerID: f.booker.ID, Status: status}
		require.NoError(t, f.repo.CreateBooking(ctx, b))
	}
	mk(&f.past, now.Add(-5*day), now.Add(-4*day), models.StatusApproved)
	mk(&f.current, now.Add(-day), now.Add(day), models.StatusApproved)
	mk(&f.future, now.Add(3*day), now.Add(4*day), models.StatusApproved)
	mk(&f.waiting, now.Add(5*day), now.Add(6*day), models.StatusWaiting)
	mk(&f.reject, now.Add(2*day), now.Add(3*day), models.StatusRejected)
	return f
}

func ids(bookings []models.Booking) []int64 {
	out := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.ID)
	}
	return out
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, 0, Page{From: 0, Size: 10}.Offset())
	assert.Equal(t, 0, Page{From: 4, Size: 5}.Offset())
	assert.Equal(t, 5, Page{From: 7, Size: 5}.Offset())
	assert.Equal(t, 20, Page{From: 20, Size: 10}.Offset())
}

func TestListBookerBookingsByState(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	all := Page{From: 0, Size: 20}

	cases := map[models.BookingState][]int64{
		models.StateAll:      {f.waiting.ID, f.future.ID, f.reject.ID, f.current.ID, f.past.ID},
		models.StateCurrent:  {f.current.ID},
		models.StatePast:     {f.past.ID},
		models.StateFuture:   {f.waiting.ID, f.future.ID, f.reject.ID},
		models.StateWaiting:  {f.waiting.ID},
		models.StateRejected: {f.reject.ID},
	}
	for state, want := range cases {
		got, err := f.repo.ListBookerBookings(ctx, f.booker.ID, state, now, all)
		require.NoError(t, err, state)
		assert.Equal(t, want, ids(got), state)
	}

	got, err := f.repo.ListBookerBookings(ctx, f.owner.ID, models.StateAll, now, all)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = f.repo.ListBookerBookings(ctx, f.booker.ID, models.BookingState("SOMETIME"), now, all)
	assert.Error(t, err)
}

func TestListOwnerBookings(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	got, err := f.repo.ListOwnerBookings(ctx, f.owner.ID, models.StateAll, now, Page{From: 0, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{f.waiting.ID, f.future.ID}, ids(got))
	assert.Equal(t, "Drill", got[0].Item.Name)
	assert.Equal(t, "Booker", got[0].Booker.Name)

	// from=3,size=2 starts at the second page
	got, err = f.repo.ListOwnerBookings(ctx, f.owner.ID, models.StateAll, now, Page{From: 3, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{f.reject.ID, f.current.ID}, ids(got))

	got, err = f.repo.ListOwnerBookings(ctx, f.booker.ID, models.StateAll, now, Page{From: 0, Size: 10})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLastAndNextBookings(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	last, err := f.repo.LastBookings(ctx, []int64{f.item.ID, f.other.ID}, now)
	require.NoError(t, err)
	require.Contains(t, last, f.item.ID)
	assert.Equal(t, f.current.ID, last[f.item.ID].ID)
	assert.NotContains(t, last, f.other.ID)

	next, err := f.repo.NextBookings(ctx, []int64{f.item.ID}, now)
	require.NoError(t, err)
	// the rejected booking starts earlier but never counts
	assert.Equal(t, f.future.ID, next[f.item.ID].ID)
}

func TestFirstFinishingBooking(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	b, err := f.repo.FirstFinishingBooking(ctx, f.item.ID, f.booker.ID)
	require.NoError(t, err)
	assert.Equal(t, f.past.ID, b.ID)

	_, err = f.repo.FirstFinishingBooking(ctx, f.item.ID, f.owner.ID)
	assert.Error(t, err)
}

func TestLockBookingAndUpdateStatus(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	err := f.repo.DB.Transaction(func(tx *gorm.DB) error {
		r := New(tx)
		b, err := r.LockBooking(ctx, f.waiting.ID)
		if err != nil {
			return err
		}
		return r.UpdateBookingStatus(ctx, b.ID, models.StatusApproved)
	})
	require.NoError(t, err)

	b, err := f.repo.FindBookingByID(ctx, f.waiting.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, b.Status)
	assert.Equal(t, f.item.ID, b.Item.ID)
}

func TestSearchAvailable(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	page := Page{From: 0, Size: 10}

	got, err := f.repo.SearchAvailable(ctx, "dRiLl", page)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, f.item.ID, got[0].ID)

	got, err = f.repo.SearchAvailable(ctx, "cordless", page)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// unavailable items are never found
	got, err = f.repo.SearchAvailable(ctx, "ladder", page)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = f.repo.SearchAvailable(ctx, "%", page)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestItemsByOwnerAndRequest(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	n, err := f.repo.CountItemsByOwner(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	items, err := f.repo.ListItemsByOwner(ctx, f.owner.ID, Page{From: 1, Size: 1})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, f.other.ID, items[0].ID)

	req := models.ItemRequest{Description: "need a saw", RequesterID: f.booker.ID, Created: now}
	require.NoError(t, f.repo.CreateRequest(ctx, &req))
	f.other.RequestID = &req.ID
	require.NoError(t, f.repo.UpdateItem(ctx, &f.other))

	byRequest, err := f.repo.ItemsByRequest(ctx, []int64{req.ID})
	require.NoError(t, err)
	require.Len(t, byRequest[req.ID], 1)
	assert.Equal(t, f.other.ID, byRequest[req.ID][0].ID)
}

func TestRequestsOrdering(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	older := models.ItemRequest{Description: "old", RequesterID: f.booker.ID, Created: now.Add(-time.Hour)}
	newer := models.ItemRequest{Description: "new", RequesterID: f.booker.ID, Created: now}
	mine := models.ItemRequest{Description: "mine", RequesterID: f.owner.ID, Created: now}
	for _, r := range []*models.ItemRequest{&older, &newer, &mine} {
		require.NoError(t, f.repo.CreateRequest(ctx, r))
	}

	own, err := f.repo.ListRequestsByRequester(ctx, f.booker.ID)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, newer.ID, own[0].ID)
	assert.Equal(t, "Booker", own[0].Requester.Name)

	others, err := f.repo.ListRequestsByOthers(ctx, f.owner.ID, Page{From: 0, Size: 10})
	require.NoError(t, err)
	require.Len(t, others, 2)
	assert.Equal(t, []int64{newer.ID, older.ID}, []int64{others[0].ID, others[1].ID})

	ok, err := f.repo.RequestExists(ctx, mine.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCommentsAndUsers(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	c := models.Comment{Text: "works fine", ItemID: f.item.ID, AuthorID: f.booker.ID, Created: now}
	require.NoError(t, f.repo.CreateComment(ctx, &c))

	byItem, err := f.repo.CommentsByItem(ctx, []int64{f.item.ID, f.other.ID})
	require.NoError(t, err)
	require.Len(t, byItem[f.item.ID], 1)
	assert.Equal(t, "Booker", byItem[f.item.ID][0].Author.Name)
	assert.Empty(t, byItem[f.other.ID])

	users, err := f.repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	rows, err := f.repo.DeleteUser(ctx, f.booker.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	exists, err := f.repo.UserExists(ctx, f.booker.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	byItem, err = f.repo.CommentsByItem(ctx, []int64{f.item.ID})
	require.NoError(t, err)
	assert.Empty(t, byItem[f.item.ID])
}
