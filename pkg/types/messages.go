package types

// Client -> Server
// AddColumn:
//   points: number
//
// RemoveColumn:
//   column: number
//
// BeginAdd:
//   group: { kind: "banned" | "tera_banned" | "column", column?: number }
//
// BeginEdit:
//   group: Group
//   index: number
//
// SetName / SetNotes:
//   name | notes: string
//
// ToggleAbility / ToggleMove:
//   name: string
//
// Commit: {}
// Cancel: {}
//
// DirectAdd:
//   group: Group
//   name: string
//
// RemoveSelection:
//   group: Group
//   index: number

// Server -> Client
// StateSnapshot:
//   version: number
//   board: DraftBoard
//   session: { mode: "idle" | "adding" | "editing", group?: Group, index?: number,
//              name: string, banned_abilities: string[], banned_moves: string[], notes: string }
//
// Error:
//   error: string
