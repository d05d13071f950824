// Package uitest provides helpers for testing Bubble Tea models with
// [teatest].
//
// [NewTestModel] accepts models whose Update method returns their concrete
// type instead of [tea.Model]:
//
//	tm := uitest.NewTestModel(t, model, uitest.Compact)
//	tm.Send(tea.KeyMsg{Type: tea.KeyRight})
//	uitest.WaitForText(t, tm.Output(), "2/3")
//
// [FinalModel] recovers the concrete model after the program exits.
package uitest
