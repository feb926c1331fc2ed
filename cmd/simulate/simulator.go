package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/doctor-booking/internal/auth"
)

type slotRef struct {
	DoctorID uuid.UUID
	Date     string
	Time     string
}

type DataPool struct {
	Doctors  []uuid.UUID
	Slots    []slotRef
	Hot      []slotRef
	Patients []auth.Actor

	mu       sync.RWMutex
	bookings []bookingView
}

func (dp *DataPool) AddBooking(b bookingView) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.bookings = append(dp.bookings, b)
}

func (dp *DataPool) RandomBooking(rng *rand.Rand) (bookingView, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.bookings) == 0 {
		return bookingView{}, false
	}
	return dp.bookings[rng.Intn(len(dp.bookings))], true
}

var healthIssues = []string{
	"persistent headache", "chest pain", "skin rash", "lower back pain",
	"follow-up visit", "seasonal allergies", "blurred vision", "sore throat",
}

var admin = auth.Actor{Role: auth.RoleAdmin, ID: uuid.New(), Name: "simulator"}

// loadDataPool lists active doctors and every free slot in the next
// DaysAhead days. The first few slots become the contested hot set.
func loadDataPool(ctx context.Context, c *apiClient, cfg SimConfig) (*DataPool, error) {
	var doctors listView[doctorView]
	status, err := c.do(ctx, admin, http.MethodGet, "/doctors", url.Values{"active": {"true"}}, nil, &doctors)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("list doctors: status %d", status)
	}

	pool := &DataPool{}
	today := time.Now()
	for _, d := range doctors.Items {
		pool.Doctors = append(pool.Doctors, d.ID)
		for i := 0; i <= cfg.DaysAhead; i++ {
			date := today.AddDate(0, 0, i).Format("2006-01-02")
			var slots slotsView
			if _, err := c.do(ctx, admin, http.MethodGet, "/doctors/"+d.ID.String()+"/slots", url.Values{"date": {date}}, nil, &slots); err != nil {
				return nil, fmt.Errorf("load slots: %w", err)
			}
			for _, s := range slots.Slots {
				if s.Available {
					pool.Slots = append(pool.Slots, slotRef{DoctorID: d.ID, Date: date, Time: s.Time})
				}
			}
		}
	}

	if len(pool.Doctors) == 0 {
		return nil, fmt.Errorf("no active doctors, run seed first")
	}
	if len(pool.Slots) == 0 {
		return nil, fmt.Errorf("no free slots in the next %d days", cfg.DaysAhead)
	}

	hot := 5
	if hot > len(pool.Slots) {
		hot = len(pool.Slots)
	}
	pool.Hot = pool.Slots[:hot]

	for i := 0; i < cfg.Patients; i++ {
		pool.Patients = append(pool.Patients, auth.Actor{Role: auth.RolePatient, ID: uuid.New(), Name: gofakeit.Name()})
	}
	return pool, nil
}

type Metrics struct {
	Booking    OperationMetrics
	Transition OperationMetrics
	ReadByID   OperationMetrics
	ListOwn    OperationMetrics
	Slots      OperationMetrics
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *apiClient
	log     zerolog.Logger
	metrics Metrics
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	s.log.Info().Dur("duration", s.config.Duration).Int("workers", s.config.Workers).Msg("starting simulation")

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	s.log.Info().Msg("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			r := rng.Float64()
			switch {
			case r < s.config.BookingRatio:
				s.doBooking(ctx, rng)
			case r < s.config.BookingRatio+s.config.ConfirmRatio:
				s.doTransition(ctx, rng)
			default:
				switch rng.Intn(3) {
				case 0:
					s.doReadByID(ctx, rng)
				case 1:
					s.doListOwn(ctx, rng)
				case 2:
					s.doSlots(ctx, rng)
				}
			}
		}
	}
}

func (s *Simulator) pickSlot(rng *rand.Rand) slotRef {
	if rng.Float64() < s.config.HotSlotsRatio {
		return s.pool.Hot[rng.Intn(len(s.pool.Hot))]
	}
	return s.pool.Slots[rng.Intn(len(s.pool.Slots))]
}

func (s *Simulator) doBooking(ctx context.Context, rng *rand.Rand) {
	slot := s.pickSlot(rng)
	patient := s.pool.Patients[rng.Intn(len(s.pool.Patients))]

	body := map[string]any{
		"patientName":   patient.Name,
		"patientPhone":  gofakeit.Phone(),
		"patientGender": gofakeit.Gender(),
		"patientAge":    gofakeit.Number(1, 95),
		"doctorId":      slot.DoctorID.String(),
		"date":          slot.Date,
		"time":          slot.Time,
		"healthIssue":   gofakeit.RandomString(healthIssues),
	}

	start := time.Now()
	var created bookingView
	status, err := s.client.do(ctx, patient, http.MethodPost, "/bookings", nil, body, &created)
	latency := time.Since(start)

	if err == nil && status == http.StatusCreated {
		s.pool.AddBooking(created)
	}
	s.metrics.Booking.Record(latency, err == nil && status == http.StatusCreated, status == http.StatusConflict)
}

// doTransition has the booking's doctor confirm it, or complete it if
// already confirmed.
func (s *Simulator) doTransition(ctx context.Context, rng *rand.Rand) {
	b, ok := s.pool.RandomBooking(rng)
	if !ok {
		return
	}
	doctor := auth.Actor{Role: auth.RoleDoctor, ID: b.DoctorID}

	next := "Confirmed"
	if rng.Intn(2) == 0 {
		next = "Completed"
	}

	start := time.Now()
	status, err := s.client.do(ctx, doctor, http.MethodPost, "/bookings/"+b.ID.String()+"/transition", nil,
		map[string]any{"status": next}, nil)
	latency := time.Since(start)

	s.metrics.Transition.Record(latency, err == nil && status == http.StatusOK, status == http.StatusConflict)
}

func (s *Simulator) doReadByID(ctx context.Context, rng *rand.Rand) {
	b, ok := s.pool.RandomBooking(rng)
	if !ok {
		return
	}
	patient := auth.Actor{Role: auth.RolePatient, ID: b.PatientID}

	start := time.Now()
	status, err := s.client.do(ctx, patient, http.MethodGet, "/bookings/"+b.ID.String(), nil, nil, nil)
	s.metrics.ReadByID.Record(time.Since(start), err == nil && status == http.StatusOK, false)
}

func (s *Simulator) doListOwn(ctx context.Context, rng *rand.Rand) {
	patient := s.pool.Patients[rng.Intn(len(s.pool.Patients))]

	start := time.Now()
	status, err := s.client.do(ctx, patient, http.MethodGet, "/bookings", nil, nil, nil)
	s.metrics.ListOwn.Record(time.Since(start), err == nil && status == http.StatusOK, false)
}

func (s *Simulator) doSlots(ctx context.Context, rng *rand.Rand) {
	slot := s.pickSlot(rng)
	patient := s.pool.Patients[rng.Intn(len(s.pool.Patients))]

	start := time.Now()
	status, err := s.client.do(ctx, patient, http.MethodGet, "/doctors/"+slot.DoctorID.String()+"/slots",
		url.Values{"date": {slot.Date}}, nil, nil)
	s.metrics.Slots.Record(time.Since(start), err == nil && status == http.StatusOK, false)
}

// VerifyNoDoubleBooking lists every Pending or Confirmed booking and returns
// how many slots hold more than one.
func (s *Simulator) VerifyNoDoubleBooking(ctx context.Context) (int, error) {
	var list listView[bookingView]
	status, err := s.client.do(ctx, admin, http.MethodGet, "/bookings", url.Values{"status": {"Pending,Confirmed"}}, nil, &list)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("list bookings: status %d", status)
	}
	return countDoubleBooked(list.Items), nil
}

func countDoubleBooked(list []bookingView) int {
	seen := make(map[slotRef]int, len(list))
	for _, b := range list {
		seen[slotRef{DoctorID: b.DoctorID, Date: b.Date, Time: b.Time}]++
	}
	dupes := 0
	for _, n := range seen {
		if n > 1 {
			dupes++
		}
	}
	return dupes
}

func (s *Simulator) PrintReport(w io.Writer) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 80))
	fmt.Fprintln(w, "SIMULATION REPORT")
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintf(w, "Duration: %s\n", s.config.Duration)
	fmt.Fprintf(w, "Workers: %d\n", s.config.Workers)
	fmt.Fprintf(w, "Hot slots: %d of %d\n", len(s.pool.Hot), len(s.pool.Slots))
	fmt.Fprintln(w)

	printOperationReport(w, "Booking", &s.metrics.Booking)
	printOperationReport(w, "Transition", &s.metrics.Transition)
	printOperationReport(w, "Read by ID", &s.metrics.ReadByID)
	printOperationReport(w, "List own bookings", &s.metrics.ListOwn)
	printOperationReport(w, "Slots", &s.metrics.Slots)
}
