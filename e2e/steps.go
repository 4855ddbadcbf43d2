package e2e

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cucumber/godog"
)

const defaultPassword = "correct-horse-battery"

// suite binds step definitions to the scenario's TestContext. The Before
// hook swaps in a fresh context, so steps always go through s.tc.
type suite struct {
	tc *TestContext

	addressIDs      map[string]int64
	previousRefresh map[string]string
}

func (s *suite) reset(tc *TestContext) {
	s.tc = tc
	s.addressIDs = make(map[string]int64)
	s.previousRefresh = make(map[string]string)
}

// RegisterSteps wires every step definition into the scenario context.
func RegisterSteps(sc *godog.ScenarioContext, s *suite) {
	// Account lifecycle
	sc.Step(`^a registered user "([^"]*)"$`, s.registeredUser)
	sc.Step(`^I register as "([^"]*)"$`, s.register)
	sc.Step(`^I register as "([^"]*)" with password "([^"]*)" repeated as "([^"]*)"$`, s.registerExplicit)
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.login)
	sc.Step(`^the superuser is logged in$`, s.superuserLogsIn)
	sc.Step(`^I log out as "([^"]*)"$`, s.logout)
	sc.Step(`^I validate the access token of "([^"]*)"$`, s.validateAccessToken)
	sc.Step(`^I refresh the session of "([^"]*)"$`, s.refreshSession)
	sc.Step(`^I refresh with the previous refresh token of "([^"]*)"$`, s.refreshWithPreviousToken)

	// Inventory
	sc.Step(`^"([^"]*)" creates IP "([^"]*)" labelled "([^"]*)"$`, s.createIP)
	sc.Step(`^"([^"]*)" relabels "([^"]*)" to "([^"]*)"$`, s.relabel)
	sc.Step(`^"([^"]*)" relabels address (\d+) to "([^"]*)"$`, s.relabelByID)
	sc.Step(`^"([^"]*)" deletes "([^"]*)"$`, s.deleteIP)
	sc.Step(`^"([^"]*)" lists the inventory$`, s.listInventory)
	sc.Step(`^the inventory is listed without a token$`, s.listInventoryAnonymously)

	// Audit trail
	sc.Step(`^"([^"]*)" requests the user audit log$`, s.requestUserAuditLog)
	sc.Step(`^"([^"]*)" requests the inventory audit log$`, s.requestInventoryAuditLog)

	// Assertions
	sc.Step(`^the response status should be (\d+)$`, s.responseStatusShouldBe)
	sc.Step(`^the error code should be "([^"]*)"$`, s.errorCodeShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, s.responseShouldContain)
	sc.Step(`^the response should not contain "([^"]*)"$`, s.responseShouldNotContain)
	sc.Step(`^the response should carry a token pair$`, s.responseShouldCarryTokenPair)
}

func (s *suite) registeredUser(name string) error {
	if err := s.register(name); err != nil {
		return err
	}
	if s.tc.lastStatus != http.StatusCreated {
		return fmt.Errorf("registering %q failed with status %d: %s", name, s.tc.lastStatus, s.tc.lastBody)
	}
	return nil
}

func (s *suite) register(name string) error {
	if err := s.registerExplicit(name, defaultPassword, defaultPassword); err != nil {
		return err
	}
	if s.tc.lastStatus == http.StatusCreated {
		return s.tc.saveSessionFromResponse(name)
	}
	return nil
}

func (s *suite) registerExplicit(name, password, repeated string) error {
	return s.tc.do(http.MethodPut, "/register", map[string]string{
		"username":  name,
		"password1": password,
		"password2": repeated,
	}, "")
}

func (s *suite) login(name, password string) error {
	if err := s.tc.do(http.MethodPost, "/login", map[string]string{
		"username": name,
		"password": password,
	}, ""); err != nil {
		return err
	}
	if s.tc.lastStatus == http.StatusOK {
		return s.tc.saveSessionFromResponse(name)
	}
	return nil
}

func (s *suite) superuserLogsIn() error {
	if err := s.login(superuserName, superuserPassword); err != nil {
		return err
	}
	if s.tc.lastStatus != http.StatusOK {
		return fmt.Errorf("superuser login failed with status %d: %s", s.tc.lastStatus, s.tc.lastBody)
	}
	return nil
}

func (s *suite) logout(name string) error {
	pair, err := s.tc.session(name)
	if err != nil {
		return err
	}
	return s.tc.do(http.MethodPost, "/logout", map[string]string{
		"access_token":  pair.access,
		"refresh_token": pair.refresh,
	}, pair.access)
}

func (s *suite) validateAccessToken(name string) error {
	pair, err := s.tc.session(name)
	if err != nil {
		return err
	}
	return s.tc.do(http.MethodPost, "/token/access/validate", map[string]string{
		"access_token": pair.access,
	}, "")
}

func (s *suite) refreshSession(name string) error {
	pair, err := s.tc.session(name)
	if err != nil {
		return err
	}

	// Token timestamps have second precision. Crossing the second boundary
	// guarantees the rotated pair differs from the one being replaced.
	waitForNextSecond()

	if err := s.tc.do(http.MethodGet, "/token/refresh", nil, pair.refresh); err != nil {
		return err
	}
	if s.tc.lastStatus == http.StatusOK {
		s.previousRefresh[name] = pair.refresh
		return s.tc.saveSessionFromResponse(name)
	}
	return nil
}

func (s *suite) refreshWithPreviousToken(name string) error {
	previous, ok := s.previousRefresh[name]
	if !ok {
		return fmt.Errorf("no rotated-out refresh token recorded for %q", name)
	}
	return s.tc.do(http.MethodGet, "/token/refresh", nil, previous)
}

func (s *suite) createIP(name, address, label string) error {
	pair, err := s.tc.session(name)
	if err != nil {
		return err
	}
	if err := s.tc.do(http.MethodPost, "/ips", map[string]string{
		"ip_address": address,
		"label":      label,
	}, pair.access); err != nil {
		return err
	}
	if s.tc.lastStatus == http.StatusCreated {
		id, err := s.tc.createdAddressID()
		if err != nil {
			return err
		}
		s.addressIDs[label] = id
	}
	return nil
}

func (s *suite) relabel(name, label, newLabel string) error {
	id, ok := s.addressIDs[label]
	if !ok {
		return fmt.Errorf("no address recorded under label %q", label)
	}
	if err := s.relabelByID(name, int(id), newLabel); err != nil {
		return err
	}
	if s.tc.lastStatus == http.StatusOK {
		s.addressIDs[newLabel] = id
	}
	return nil
}

func (s *suite) relabelByID(name string, id int, newLabel string) error {
	pair, err := s.tc.session(name)
	if err != nil {
		return err
	}
	return s.tc.do(http.MethodPatch, "/ips/"+strconv.Itoa(id), map[string]string{
		"label": newLabel,
	}, pair.access)
}

func (s *suite) deleteIP(name, label string) error {
	id, ok := s.addressIDs[label]
	if !ok {
		return fmt.Errorf("no address recorded under label %q", label)
	}
	pair, err := s.tc.session(name)
	if err != nil {
		return err
	}
	return s.tc.do(http.MethodDelete, "/ips/"+strconv.FormatInt(id, 10), nil, pair.access)
}

func (s *suite) listInventory(name string) error {
	pair, err := s.tc.session(name)
	if err != nil {
		return err
	}
	return s.tc.do(http.MethodGet, "/ips", nil, pair.access)
}

func (s *suite) listInventoryAnonymously() error {
	return s.tc.do(http.MethodGet, "/ips", nil, "")
}

func (s *suite) requestUserAuditLog(name string) error {
	pair, err := s.tc.session(name)
	if err != nil {
		return err
	}
	return s.tc.do(http.MethodGet, "/audit-log/users", nil, pair.access)
}

func (s *suite) requestInventoryAuditLog(name string) error {
	pair, err := s.tc.session(name)
	if err != nil {
		return err
	}
	return s.tc.do(http.MethodGet, "/audit-log/ips", nil, pair.access)
}

func (s *suite) responseStatusShouldBe(expected int) error {
	if s.tc.lastStatus != expected {
		return fmt.Errorf("expected status %d but got %d: %s", expected, s.tc.lastStatus, s.tc.lastBody)
	}
	return nil
}

func (s *suite) errorCodeShouldBe(expected string) error {
	code, err := s.tc.errorCode()
	if err != nil {
		return err
	}
	if code != expected {
		return fmt.Errorf("expected error code %q but got %q", expected, code)
	}
	return nil
}

func (s *suite) responseShouldContain(text string) error {
	if !s.tc.responseContains(text) {
		return fmt.Errorf("response does not contain %q: %s", text, s.tc.lastBody)
	}
	return nil
}

func (s *suite) responseShouldNotContain(text string) error {
	if s.tc.responseContains(text) {
		return fmt.Errorf("response unexpectedly contains %q: %s", text, s.tc.lastBody)
	}
	return nil
}

func (s *suite) responseShouldCarryTokenPair() error {
	if !s.tc.responseContains("access_token") || !s.tc.responseContains("refresh_token") {
		return fmt.Errorf("response carries no token pair: %s", s.tc.lastBody)
	}
	return nil
}

func waitForNextSecond() {
	now := time.Now()
	time.Sleep(time.Until(now.Truncate(time.Second).Add(1100 * time.Millisecond)))
}
