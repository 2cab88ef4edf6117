// Package env implements the turn-based trading environment: a stepwise
// state machine over synthetic intraday prices with a cash/portfolio ledger,
// a marginal-value reward, and fund-bound termination.
package env

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"StockGym/internal/config"
	"StockGym/internal/ledger"
	"StockGym/internal/marketdata"
	"StockGym/internal/model"
	"StockGym/internal/recorder"
	"StockGym/internal/sim"
)

const (
	// TicksPerDay is the number of sub-day steps in a trading day: a six-hour
	// window from 10:00 at 15-minute granularity.
	TicksPerDay = 24

	tickMinutes     = 15
	tradingOpenHour = 10
	dateFmt         = "2006-01-02"

	// randomStartDays bounds the uniform start-date offset drawn at reset.
	randomStartDays = 100
)

// ErrInvalidAction is returned by Step when the action batch violates the
// parallel-array contract; the whole step is rejected.
var ErrInvalidAction = errors.New("invalid action")

// Env is a single-owner, single-goroutine trading environment. One Step call
// drives exactly one state transition; no concurrent steps are permitted on
// the same instance.
type Env struct {
	cfg   *config.Config
	store *marketdata.Store
	rng   *rand.Rand
	synth *sim.Synthesizer
	book  *ledger.Ledger
	rec   recorder.Recorder

	episode            int
	dayCount           int
	tickCount          int
	stepCount          int
	userStartDate      time.Time
	maxTransactionDays int
	minSeq             int
	displayDate        string
	needDayRollover    bool
	done               bool

	companyList []int // resolved allowlist for this episode; nil means all
	simOrder    []int
	sims        map[int]*sim.DailySimulation
	quotes      map[int]model.Quote

	prevTotal   float64
	totalValue  float64
	observation *model.Observation
	summary     model.EpisodeSummary
}

// New constructs an environment over an already-loaded historical store.
// Pass a nil recorder to disable history recording.
func New(cfg *config.Config, store *marketdata.Store, rec recorder.Recorder) (*Env, error) {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}

	start := store.MinDate()
	if cfg.Simulation.StartDate != "" {
		parsed, err := time.Parse(dateFmt, cfg.Simulation.StartDate)
		if err != nil {
			return nil, fmt.Errorf("parse start_date: %w", err)
		}
		start = parsed
	}
	if start.Before(store.MinDate()) {
		start = store.MinDate()
	}
	// Leave room for the random start offset at the tail of the range.
	latest := store.MaxDate().AddDate(0, 0, -randomStartDays)
	if start.After(latest) {
		start = latest
	}

	maxDays := store.MaxTransactionDays()
	if cfg.Simulation.MaxDays > 0 && cfg.Simulation.MaxDays < maxDays {
		maxDays = cfg.Simulation.MaxDays
	}

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	return &Env{
		cfg:                cfg,
		store:              store,
		rng:                rng,
		synth:              sim.NewSynthesizer(store.Templates(), rng),
		rec:                rec,
		userStartDate:      start,
		maxTransactionDays: maxDays,
	}, nil
}

// Seed reseeds the environment's random stream. The same seed over the same
// historical data reproduces the same template selections.
func (e *Env) Seed(seed int64) {
	e.rng.Seed(seed)
}

// Episode returns the current episode index.
func (e *Env) Episode() int { return e.episode }

// TotalValue returns the most recently computed portfolio value.
func (e *Env) TotalValue() float64 { return e.totalValue }

// Summary returns the running episode summary.
func (e *Env) Summary() model.EpisodeSummary { return e.summary }

// Reset starts a new episode and returns its first observation.
func (e *Env) Reset() (*model.Observation, error) {
	e.episode++
	e.dayCount = 0
	e.tickCount = 0
	e.stepCount = 0
	e.needDayRollover = false
	e.done = false
	e.book = ledger.New(e.cfg.Simulation.InitialFund, e.cfg.Simulation.InitialBankBalance)
	e.prevTotal = e.cfg.Simulation.InitialFund

	start := e.userStartDate
	if !e.cfg.Simulation.KeepSameStartDate {
		start = start.AddDate(0, 0, e.rng.Intn(randomStartDays))
	}
	bar, ok := e.store.FirstBarOnOrAfter(start)
	if !ok {
		return nil, fmt.Errorf("no index data on or after %s", start.Format(dateFmt))
	}
	e.minSeq = bar.Seq
	e.displayDate = bar.Date
	log.Printf("[INFO] episode %d starts on %s", e.episode, e.displayDate)

	e.resolveCompanyList()

	if err := e.rec.StartEpisode(e.episode); err != nil {
		return nil, fmt.Errorf("start episode recording: %w", err)
	}

	e.generateDailySimulations(e.displayDate)
	e.totalValue = e.book.TotalValue(e.currentPrice)
	obs := e.buildObservation()
	e.initSummary(obs)
	return obs, nil
}

// Step applies one action batch, advances one sub-day tick, and returns the
// new observation, the reward, the termination flag, and per-order outcomes.
// A terminated episode returns a nil observation with zero reward; that is
// the end-of-episode contract, not an error.
func (e *Env) Step(action *model.Action) (*model.Observation, float64, bool, model.StepInfo, error) {
	info := model.NewStepInfo()
	if e.done {
		return nil, 0, true, info, nil
	}
	if e.book == nil {
		return nil, 0, false, info, fmt.Errorf("step before reset")
	}
	if err := action.Validate(); err != nil {
		return nil, 0, false, info, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}

	if e.needDayRollover {
		e.moveDayForward()
	}

	e.applyAction(action, &info)
	reward := e.computeReward()

	done := e.isDone()
	if done {
		e.done = true
		if err := e.rec.RecordEpisode(&e.summary); err != nil {
			log.Printf("[ERROR] record episode %d: %v", e.episode, err)
		}
		return nil, 0, true, info, nil
	}

	obs := e.buildObservation()
	dateTime := e.displayDateTime()
	e.tickCount++
	e.stepCount++
	e.needDayRollover = e.tickCount >= TicksPerDay || action.EndBatch

	e.updateSummary(obs)
	if err := e.rec.RecordStep(&recorder.StepRecord{
		Episode:     e.episode,
		Step:        e.stepCount,
		DateTime:    dateTime,
		Action:      *action,
		Observation: obs,
		Reward:      reward,
		Info:        info,
		TotalValue:  e.totalValue,
	}); err != nil {
		log.Printf("[ERROR] record step %d: %v", e.stepCount, err)
	}

	return obs, reward, false, info, nil
}

// resolveCompanyList draws the episode's tradable subset from the configured
// allowlist. With keep_same_companies set, the first draw is reused.
func (e *Env) resolveCompanyList() {
	list := e.cfg.Simulation.CompanyList
	if len(list) == 0 {
		e.companyList = nil
		return
	}
	if e.cfg.Simulation.KeepSameCompanies && e.companyList != nil {
		return
	}
	picked := make([]int, len(list))
	copy(picked, list)
	if n := e.cfg.Simulation.CompanyNumber; n > 0 && n < len(picked) {
		e.rng.Shuffle(len(picked), func(i, j int) {
			picked[i], picked[j] = picked[j], picked[i]
		})
		picked = picked[:n]
	}
	e.companyList = picked
}

func (e *Env) simulated(companyID int) bool {
	if e.companyList == nil {
		return true
	}
	for _, id := range e.companyList {
		if id == companyID {
			return true
		}
	}
	return false
}

// generateDailySimulations synthesizes the day's price path for every tracked
// company with a bar on the given date. Companies whose ratio bucket has no
// historical template are left out of the tradable set.
func (e *Env) generateDailySimulations(date string) {
	e.synth.StartDay()
	e.sims = make(map[int]*sim.DailySimulation)
	e.simOrder = e.simOrder[:0]
	for _, bar := range e.store.BarsOn(date) {
		if !e.simulated(bar.CompanyID) {
			continue
		}
		s := e.synth.Synthesize(bar)
		if !s.Active() {
			continue
		}
		e.sims[bar.CompanyID] = s
		e.simOrder = append(e.simOrder, bar.CompanyID)
	}
	log.Printf("[INFO] day %d (%s): %d tradable companies", e.dayCount, date, len(e.sims))
}

// moveDayForward rolls the simulation to the next trading day and
// re-synthesizes prices for the new day's bars.
func (e *Env) moveDayForward() {
	e.dayCount++
	e.tickCount = 0
	e.needDayRollover = false
	bar, ok := e.store.IndexBarAt(e.minSeq + e.dayCount)
	if !ok {
		e.displayDate = ""
		return
	}
	e.displayDate = bar.Date
	e.generateDailySimulations(e.displayDate)
}

// applyAction executes the order batch against the quotes the agent saw in
// the previous observation. Orders for companies with no active simulation
// are skipped silently: a no-liquidity condition, not an error.
func (e *Env) applyAction(action *model.Action, info *model.StepInfo) {
	for i := 0; i < action.CompanyCount; i++ {
		id := action.CompanyID[i]
		q, ok := e.quotes[id]
		if !ok {
			continue
		}
		limit := action.Price[i]
		volume := action.Volume[i]

		e.describeCompany(id, info)

		switch action.Operation[i] {
		case model.OpBuy:
			fulfilled := false
			if limit >= q.AskPrice { // price priority gate; fills at the ask
				fulfilled = e.book.Buy(id, q.AskPrice, volume)
			}
			info.Transactions[id] = model.TransactionInfo{
				Action: "buy", Price: q.AskPrice, Volume: volume, Fulfilled: fulfilled,
			}
		case model.OpSell:
			fulfilled := false
			if limit <= q.BidPrice {
				fulfilled = e.book.Sell(id, q.BidPrice, volume)
			}
			info.Transactions[id] = model.TransactionInfo{
				Action: "sell", Price: q.BidPrice, Volume: volume, Fulfilled: fulfilled,
			}
		case model.OpTopUp, model.OpWithdraw:
			// Accepted but inert, reserved for cash-flow modeling.
		default:
			info.Transactions[id] = model.TransactionInfo{
				Action: "hold", Price: q.Price, Volume: -1,
			}
		}
	}
}

func (e *Env) describeCompany(id int, info *model.StepInfo) {
	c, ok := e.store.Company(id)
	if !ok {
		return
	}
	ci := model.CompanyInfo{Name: c.Name, Description: c.Description}
	if sec, ok := e.store.Sector(c.SectorID); ok {
		ci.Sector = sec.Name
	}
	info.Companies[id] = ci
}

func (e *Env) currentPrice(companyID int) (float64, bool) {
	q, ok := e.quotes[companyID]
	return q.Price, ok
}

// computeReward recomputes the total portfolio value and returns its change
// since the previous step.
func (e *Env) computeReward() float64 {
	total := e.book.TotalValue(e.currentPrice)
	reward := total - e.prevTotal
	e.prevTotal = total
	e.totalValue = total

	if e.summary.Values.High.Value < total {
		e.summary.Values.High = model.DatedValue{Date: e.displayDate, Value: total}
	}
	if e.summary.Values.Low.Value > total {
		e.summary.Values.Low = model.DatedValue{Date: e.displayDate, Value: total}
	}
	e.summary.Values.Close = model.DatedValue{Date: e.displayDate, Value: total}
	e.summary.Buys = e.book.Buys()
	e.summary.Sells = e.book.Sells()
	return reward
}

// isDone checks termination strictly after the step's reward: end of
// historical data, the day budget, or the total value breaching the
// configured fund bounds.
func (e *Env) isDone() bool {
	if e.displayDate == "" {
		return true
	}
	if e.dayCount >= e.maxTransactionDays-1 {
		return true
	}
	initial := e.cfg.Simulation.InitialFund
	minLost := marketdata.Round3(initial * e.cfg.Simulation.FundDecreaseRatio)
	maxGain := marketdata.Round3(initial * e.cfg.Simulation.FundIncreaseRatio)
	return e.totalValue < minLost || e.totalValue > maxGain
}

// buildObservation advances every active simulation by one tick and exposes
// the resulting quotes; the next action batch executes against exactly these.
func (e *Env) buildObservation() *model.Observation {
	e.quotes = make(map[int]model.Quote, len(e.sims))
	prices := make([]model.CompanyQuote, 0, len(e.sims))
	for _, id := range e.simOrder {
		q := e.sims[id].Next()
		e.quotes[id] = q
		prices = append(prices, model.CompanyQuote{
			CompanyID: id, AskPrice: q.AskPrice, BidPrice: q.BidPrice, Price: q.Price,
		})
	}

	var indexes model.IndexLevels
	if bar, ok := e.store.IndexBarAt(e.minSeq + e.dayCount); ok {
		indexes = model.IndexLevels{Open: bar.Open, Close: bar.Close, High: bar.High, Low: bar.Low}
	}

	holdings := e.book.Holdings()
	obs := &model.Observation{
		Day:                   e.dayCount,
		Second:                e.tickCount*tickMinutes*60 + tradingOpenHour*3600,
		Date:                  e.displayDate,
		CompanyCount:          len(prices),
		Prices:                prices,
		PortfolioCompanyCount: len(holdings),
		Portfolios:            holdings,
		AvailableFund:         e.book.AvailableFund(),
		BankBalance:           e.book.BankBalance(),
		TotalValue:            e.totalValue,
		Indexes:               indexes,
	}
	e.observation = obs
	return obs
}

func (e *Env) displayDateTime() string {
	totalMinutes := e.tickCount * tickMinutes
	return fmt.Sprintf("%s %02d:%02d:00",
		e.displayDate, tradingOpenHour+totalMinutes/60, totalMinutes%60)
}

func (e *Env) initSummary(obs *model.Observation) {
	date := e.displayDate
	fund := e.cfg.Simulation.InitialFund
	e.summary = model.EpisodeSummary{
		Episode:   e.episode,
		StartDate: date,
		EndDate:   date,
		Indexes: model.RangeSummary{
			Open:  model.DatedValue{Date: date, Value: obs.Indexes.Open},
			Close: model.DatedValue{Date: date, Value: obs.Indexes.Close},
			High:  model.DatedValue{Date: date, Value: obs.Indexes.High},
			Low:   model.DatedValue{Date: date, Value: obs.Indexes.Low},
		},
		Values: model.RangeSummary{
			Open:  model.DatedValue{Date: date, Value: fund},
			Close: model.DatedValue{Date: date, Value: fund},
			High:  model.DatedValue{Date: date, Value: fund},
			Low:   model.DatedValue{Date: date, Value: fund},
		},
	}
}

func (e *Env) updateSummary(obs *model.Observation) {
	e.summary.Steps = e.stepCount
	e.summary.EndDate = e.displayDate
	e.summary.Indexes.Close = model.DatedValue{Date: e.displayDate, Value: obs.Indexes.Close}
	if e.summary.Indexes.High.Value < obs.Indexes.High {
		e.summary.Indexes.High = model.DatedValue{Date: e.displayDate, Value: obs.Indexes.High}
	}
	if e.summary.Indexes.Low.Value > obs.Indexes.Low {
		e.summary.Indexes.Low = model.DatedValue{Date: e.displayDate, Value: obs.Indexes.Low}
	}
}
