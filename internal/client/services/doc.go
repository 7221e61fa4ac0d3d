// Package services contains the application services of the Ember client:
//
//   - JournalService: save, list and fetch journal entries for the signed-in
//     user, encrypting sensitive fields on the way to the store.
//   - AuthService: the local identity provider (register, login, logout).
//   - ProcessingService: turns audio or a transcript into a saved entry via
//     the draft generator.
package services
