package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"
)

var seedDDL = []string{
	`CREATE TABLE IF NOT EXISTS securities (
		id SERIAL PRIMARY KEY,
		symbol TEXT NOT NULL,
		name TEXT NOT NULL,
		asset_class TEXT NOT NULL,
		currency TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS counterparties (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		region TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		region TEXT NOT NULL,
		aum NUMERIC(18,2)
	)`,
	`CREATE TABLE IF NOT EXISTS funds (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		inception_date DATE
	)`,
	`CREATE TABLE IF NOT EXISTS trade_settlements (
		id SERIAL PRIMARY KEY,
		trade_date DATE NOT NULL,
		settlement_date DATE NOT NULL,
		security_id INTEGER REFERENCES securities(id),
		counterparty_id INTEGER REFERENCES counterparties(id),
		quantity NUMERIC(18,2),
		price NUMERIC(18,4),
		trade_value NUMERIC(18,2),
		status TEXT NOT NULL,
		fail_reason TEXT,
		side TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS portfolio_positions (
		id SERIAL PRIMARY KEY,
		as_of_date DATE NOT NULL,
		fund_id INTEGER REFERENCES funds(id),
		security_id INTEGER REFERENCES securities(id),
		quantity NUMERIC(18,2),
		market_value NUMERIC(18,2),
		cost_basis NUMERIC(18,2),
		region TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS corporate_actions (
		id SERIAL PRIMARY KEY,
		security_id INTEGER REFERENCES securities(id),
		action_type TEXT NOT NULL,
		ex_date DATE NOT NULL,
		payment_date DATE,
		amount NUMERIC(18,4),
		ratio TEXT,
		status TEXT NOT NULL,
		description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS compliance_exceptions (
		id SERIAL PRIMARY KEY,
		exception_date DATE NOT NULL,
		fund_id INTEGER REFERENCES funds(id),
		rule_type TEXT NOT NULL,
		severity TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL,
		resolved_date DATE
	)`,
	`CREATE TABLE IF NOT EXISTS fee_revenue (
		id SERIAL PRIMARY KEY,
		period_date DATE NOT NULL,
		client_id INTEGER REFERENCES clients(id),
		fee_type TEXT NOT NULL,
		fee_amount NUMERIC(18,2),
		aum NUMERIC(18,2),
		basis_points INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS client_payments (
		id SERIAL PRIMARY KEY,
		payment_date DATE NOT NULL,
		client_id INTEGER REFERENCES clients(id),
		invoice_number TEXT NOT NULL,
		amount NUMERIC(18,2),
		status TEXT NOT NULL,
		days_overdue INTEGER DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS nav_adjustments (
		id SERIAL PRIMARY KEY,
		nav_date DATE NOT NULL,
		fund_id INTEGER REFERENCES funds(id),
		adjustment_type TEXT NOT NULL,
		amount NUMERIC(18,2),
		reason TEXT,
		approved_by TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS reconciliation_exceptions (
		id SERIAL PRIMARY KEY,
		exception_date DATE NOT NULL,
		source TEXT NOT NULL,
		exception_type TEXT NOT NULL,
		security_id INTEGER REFERENCES securities(id),
		discrepancy_amount NUMERIC(18,2),
		status TEXT NOT NULL,
		resolved_date DATE,
		age_in_days INTEGER
	)`,
}

// Seed creates the analytical tables and loads them with demo data. Safe to
// run against an empty database; skips loading when securities already holds
// rows so restarts don't double the data.
func (s *Store) Seed(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("no database connection configured")
	}

	log.Println("[SEED] Starting database seed...")

	for _, ddl := range seedDDL {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}

	var existing int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM securities").Scan(&existing); err != nil {
		return fmt.Errorf("failed to check existing data: %w", err)
	}
	if existing > 0 {
		log.Println("[SEED] Data already present, skipping")
		return nil
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	log.Println("[SEED] Seeding securities...")
	securities := [][3]string{
		{"AAPL", "Apple Inc.", "Equity"},
		{"MSFT", "Microsoft Corporation", "Equity"},
		{"GOOGL", "Alphabet Inc.", "Equity"},
		{"AMZN", "Amazon.com Inc.", "Equity"},
		{"JPM", "JPMorgan Chase & Co.", "Equity"},
		{"T", "US Treasury 10Y", "Fixed Income"},
		{"BAC", "Bank of America Corp", "Equity"},
		{"XOM", "Exxon Mobil Corporation", "Equity"},
		{"SPY", "SPDR S&P 500 ETF", "Alternative"},
		{"GLD", "SPDR Gold Shares", "Alternative"},
	}
	securityIDs := make([]int, 0, len(securities))
	for _, sec := range securities {
		var id int
		err := s.db.QueryRowContext(ctx,
			"INSERT INTO securities (symbol, name, asset_class, currency) VALUES ($1, $2, $3, 'USD') RETURNING id",
			sec[0], sec[1], sec[2]).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to seed securities: %w", err)
		}
		securityIDs = append(securityIDs, id)
	}

	log.Println("[SEED] Seeding counterparties...")
	counterparties := [][3]string{
		{"Goldman Sachs", "Broker-Dealer", "North America"},
		{"Morgan Stanley", "Broker-Dealer", "North America"},
		{"Deutsche Bank", "Broker-Dealer", "Europe"},
		{"UBS", "Broker-Dealer", "Europe"},
		{"Nomura", "Broker-Dealer", "Asia Pacific"},
		{"HSBC", "Custodian", "Asia Pacific"},
		{"BNY Mellon", "Custodian", "North America"},
		{"State Street", "Custodian", "North America"},
	}
	counterpartyIDs := make([]int, 0, len(counterparties))
	for _, cp := range counterparties {
		var id int
		err := s.db.QueryRowContext(ctx,
			"INSERT INTO counterparties (name, type, region) VALUES ($1, $2, $3) RETURNING id",
			cp[0], cp[1], cp[2]).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to seed counterparties: %w", err)
		}
		counterpartyIDs = append(counterpartyIDs, id)
	}

	log.Println("[SEED] Seeding clients...")
	clients := []struct {
		name, typ, region string
		aum               float64
	}{
		{"Pension Fund Alpha", "Pension", "North America", 5400000000},
		{"Endowment Beta", "Endowment", "North America", 2100000000},
		{"Insurance Co Gamma", "Insurance", "Europe", 3800000000},
		{"Family Office Delta", "Family Office", "North America", 850000000},
		{"Sovereign Wealth Epsilon", "Sovereign Wealth", "Asia Pacific", 12000000000},
		{"Corporate Treasury Zeta", "Corporate", "North America", 1200000000},
	}
	type clientRow struct {
		id  int
		aum float64
	}
	clientRows := make([]clientRow, 0, len(clients))
	for _, c := range clients {
		var id int
		err := s.db.QueryRowContext(ctx,
			"INSERT INTO clients (name, type, region, aum) VALUES ($1, $2, $3, $4) RETURNING id",
			c.name, c.typ, c.region, c.aum).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to seed clients: %w", err)
		}
		clientRows = append(clientRows, clientRow{id: id, aum: c.aum})
	}

	log.Println("[SEED] Seeding funds...")
	funds := [][3]string{
		{"Global Equity Fund", "Equity", "2020-01-01"},
		{"Fixed Income Fund", "Fixed Income", "2018-06-15"},
		{"Balanced Fund", "Mixed", "2019-03-20"},
		{"Alternative Strategies Fund", "Alternative", "2021-09-01"},
	}
	fundIDs := make([]int, 0, len(funds))
	for _, f := range funds {
		var id int
		err := s.db.QueryRowContext(ctx,
			"INSERT INTO funds (name, type, inception_date) VALUES ($1, $2, $3) RETURNING id",
			f[0], f[1], f[2]).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to seed funds: %w", err)
		}
		fundIDs = append(fundIDs, id)
	}

	now := time.Now()
	day := func(offset int) string { return now.AddDate(0, 0, offset).Format("2006-01-02") }

	log.Println("[SEED] Seeding trade settlements...")
	statuses := []string{"Settled", "Settled", "Settled", "Failed", "Pending"}
	failReasons := []interface{}{nil, nil, nil, "Insufficient Securities", "Counterparty Delay"}
	sides := []string{"Buy", "Sell"}
	for i := 0; i < 500; i++ {
		daysAgo := rng.Intn(90)
		quantity := float64(rng.Intn(10000) + 100)
		price := rng.Float64()*500 + 50
		si := rng.Intn(len(statuses))
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO trade_settlements
				(trade_date, settlement_date, security_id, counterparty_id, quantity, price, trade_value, status, fail_reason, side)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			day(-daysAgo), day(-daysAgo+2),
			securityIDs[rng.Intn(len(securityIDs))], counterpartyIDs[rng.Intn(len(counterpartyIDs))],
			quantity, price, quantity*price, statuses[si], failReasons[si], sides[rng.Intn(2)])
		if err != nil {
			return fmt.Errorf("failed to seed trade_settlements: %w", err)
		}
	}

	log.Println("[SEED] Seeding portfolio positions...")
	regions := []string{"North America", "Europe", "Asia Pacific", "Emerging Markets"}
	for i := 0; i < 200; i++ {
		quantity := float64(rng.Intn(50000) + 1000)
		price := rng.Float64()*500 + 50
		marketValue := quantity * price
		costBasis := marketValue * (0.85 + rng.Float64()*0.3)
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO portfolio_positions
				(as_of_date, fund_id, security_id, quantity, market_value, cost_basis, region)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			day(-rng.Intn(30)), fundIDs[rng.Intn(len(fundIDs))], securityIDs[rng.Intn(len(securityIDs))],
			quantity, marketValue, costBasis, regions[rng.Intn(len(regions))])
		if err != nil {
			return fmt.Errorf("failed to seed portfolio_positions: %w", err)
		}
	}

	log.Println("[SEED] Seeding corporate actions...")
	actionTypes := []string{"Dividend", "Split", "Merger", "Spin-off"}
	caStatuses := []string{"Pending", "Processed", "Cancelled"}
	for i := 0; i < 100; i++ {
		exOffset := rng.Intn(60) - 30
		secIdx := rng.Intn(len(securities))
		actionType := actionTypes[rng.Intn(len(actionTypes))]
		var paymentDate, amount, ratio interface{}
		if actionType == "Dividend" {
			paymentDate = day(exOffset + 15)
			amount = rng.Float64() * 5
		}
		if actionType == "Split" {
			ratio = "2:1"
		}
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO corporate_actions
				(security_id, action_type, ex_date, payment_date, amount, ratio, status, description)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			securityIDs[secIdx], actionType, day(exOffset), paymentDate, amount, ratio,
			caStatuses[rng.Intn(len(caStatuses))],
			fmt.Sprintf("%s for %s", actionType, securities[secIdx][1]))
		if err != nil {
			return fmt.Errorf("failed to seed corporate_actions: %w", err)
		}
	}

	log.Println("[SEED] Seeding compliance exceptions...")
	ruleTypes := []string{"Position Limit", "Concentration Risk", "Liquidity Threshold", "VaR Breach"}
	severities := []string{"High", "Medium", "Low"}
	ceStatuses := []string{"Open", "Resolved", "Under Review"}
	for i := 0; i < 80; i++ {
		daysAgo := rng.Intn(45)
		fundIdx := rng.Intn(len(fundIDs))
		status := ceStatuses[rng.Intn(len(ceStatuses))]
		var resolvedDate interface{}
		if status == "Resolved" {
			resolvedDate = day(-daysAgo + rng.Intn(10))
		}
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO compliance_exceptions
				(exception_date, fund_id, rule_type, severity, description, status, resolved_date)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			day(-daysAgo), fundIDs[fundIdx], ruleTypes[rng.Intn(len(ruleTypes))],
			severities[rng.Intn(len(severities))],
			fmt.Sprintf("Compliance exception detected for %s", funds[fundIdx][0]),
			status, resolvedDate)
		if err != nil {
			return fmt.Errorf("failed to seed compliance_exceptions: %w", err)
		}
	}

	log.Println("[SEED] Seeding fee revenue...")
	feeTypes := []string{"Management Fee", "Performance Fee", "Advisory Fee", "Transaction Fee"}
	for i := 0; i < 150; i++ {
		monthsAgo := rng.Intn(12)
		period := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -monthsAgo, 0)
		client := clientRows[rng.Intn(len(clientRows))]
		basisPoints := rng.Intn(100) + 20
		feeAmount := client.aum * float64(basisPoints) / 10000
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO fee_revenue (period_date, client_id, fee_type, fee_amount, aum, basis_points)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			period.Format("2006-01-02"), client.id, feeTypes[rng.Intn(len(feeTypes))],
			feeAmount, client.aum, basisPoints)
		if err != nil {
			return fmt.Errorf("failed to seed fee_revenue: %w", err)
		}
	}

	log.Println("[SEED] Seeding client payments...")
	paymentStatuses := []string{"Paid", "Paid", "Paid", "Overdue", "Pending"}
	for i := 0; i < 120; i++ {
		status := paymentStatuses[rng.Intn(len(paymentStatuses))]
		daysOverdue := 0
		if status == "Overdue" {
			daysOverdue = rng.Intn(30) + 1
		}
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO client_payments (payment_date, client_id, invoice_number, amount, status, days_overdue)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			day(-rng.Intn(90)), clientRows[rng.Intn(len(clientRows))].id,
			fmt.Sprintf("INV-%d-%d", now.Unix(), i),
			rng.Float64()*500000+50000, status, daysOverdue)
		if err != nil {
			return fmt.Errorf("failed to seed client_payments: %w", err)
		}
	}

	log.Println("[SEED] Seeding NAV adjustments...")
	adjustmentTypes := []string{"Accrual", "Fee Adjustment", "Price Correction", "Income Accrual"}
	approvers := []string{"John Smith", "Jane Doe", "Mike Johnson", "Sarah Williams"}
	for i := 0; i < 100; i++ {
		fundIdx := rng.Intn(len(fundIDs))
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO nav_adjustments (nav_date, fund_id, adjustment_type, amount, reason, approved_by)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			day(-rng.Intn(60)), fundIDs[fundIdx], adjustmentTypes[rng.Intn(len(adjustmentTypes))],
			rng.Float64()*100000-50000,
			fmt.Sprintf("NAV adjustment for %s", funds[fundIdx][0]),
			approvers[rng.Intn(len(approvers))])
		if err != nil {
			return fmt.Errorf("failed to seed nav_adjustments: %w", err)
		}
	}

	log.Println("[SEED] Seeding reconciliation exceptions...")
	sources := []string{"Custodian", "Prime Broker", "Fund Admin", "Internal System"}
	exceptionTypes := []string{"Price Discrepancy", "Quantity Mismatch", "Missing Security", "Duplicate Trade"}
	recStatuses := []string{"Open", "Resolved", "Under Investigation"}
	for i := 0; i < 90; i++ {
		daysAgo := rng.Intn(45)
		status := recStatuses[rng.Intn(len(recStatuses))]
		var securityID interface{}
		if rng.Float64() > 0.3 {
			securityID = securityIDs[rng.Intn(len(securityIDs))]
		}
		var resolvedDate interface{}
		age := daysAgo
		if status == "Resolved" {
			resolvedIn := rng.Intn(15)
			resolvedDate = day(-daysAgo + resolvedIn)
			age = resolvedIn
		}
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO reconciliation_exceptions
				(exception_date, source, exception_type, security_id, discrepancy_amount, status, resolved_date, age_in_days)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			day(-daysAgo), sources[rng.Intn(len(sources))], exceptionTypes[rng.Intn(len(exceptionTypes))],
			securityID, rng.Float64()*50000-25000, status, resolvedDate, age)
		if err != nil {
			return fmt.Errorf("failed to seed reconciliation_exceptions: %w", err)
		}
	}

	log.Println("[SEED] Database seed completed successfully")
	return nil
}
