package ecs

import "errors"

// ErrDuplicateName is returned by CreateEntity when the requested name is
// already bound to a live entity; the name<->entity mapping is a
// bijection within one world.
var ErrDuplicateName = errors.New("ecs: entity name already in use")

// ErrUnknownEntity names an entity id the registry has no mask entry for.
// No registry operation returns it: AddComponent on such an id is a
// contract violation and panics, with this error in the panic message.
var ErrUnknownEntity = errors.New("ecs: unknown entity")
