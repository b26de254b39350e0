package booking_form

import "time"

// validate проверяет поля формы. Вызывается под мьютексом
func (f *Form) validate() map[string]string {
	errs := map[string]string{}

	if f.start.IsZero() {
		errs[FieldStartDate] = "Start date is required"
	}
	if f.end.IsZero() {
		errs[FieldEndDate] = "End date is required"
	}
	if f.providerID == "" {
		errs[FieldProvider] = "Please select a provider"
	}

	// Машина обязательна, только если у провайдера есть машины
	if f.carID == "" && len(f.cars) > 0 {
		errs[FieldCar] = "Please select a car"
	}

	if !f.start.IsZero() && !f.end.IsZero() && !f.end.After(f.start) {
		errs[FieldEndDate] = "End date must be after start date"
	}

	// Прошедшая дата начала запрещена только для нового бронирования
	if f.mode == ModeCreate && !f.start.IsZero() && isDateInPast(f.start, f.clock.Now()) {
		errs[FieldStartDate] = "Start date cannot be in the past"
	}

	return errs
}

// isDateInPast сравнивает даты с точностью до дня
func isDateInPast(date time.Time, now time.Time) bool {
	now = now.In(date.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, date.Location())
	return day.Before(today)
}
