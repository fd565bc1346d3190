package cmdq

import "github.com/ent0n29/muxd/internal/notify"

// Continue advances the queue as far as possible in one invocation and
// reports whether it drained completely. It returns false when a command
// suspended with Wait (some external event must call Continue again) or
// when a hook fired (the hook's child queue re-drives this one when it
// drains).
//
// Notifications are batched for the whole invocation; nested invocations
// for hook children share the same bracket.
func (q *Queue) Continue() bool {
	if q.bus != nil {
		q.bus.Disable()
		defer q.bus.Enable()
	}

	if len(q.items) == 0 {
		q.drained()
		return true
	}

	// Place the cursor unless we are resuming after a hook, in which case
	// the queue is already in the right place.
	if !q.during {
		if q.item == nil {
			q.item = q.items[0]
			q.pos = 0
			q.cmd = q.item.cmdAt(0)
		} else {
			q.pos++
			q.cmd = q.item.cmdAt(q.pos)
		}
	}

	for q.item != nil {
	commands:
		for q.cmd != nil {
			cmd := q.cmd

			q.time = q.now().Unix()
			q.number++

			flags := 0
			if cmd.Flags&FlagControl != 0 {
				flags = 1
			}

			var guarded bool
			if q.during {
				// The begin guard, if any, went out before the hook
				// fired; a failure from here on closes that same pair.
				guarded = q.client != nil && q.client.IsControl()
				resumed := q.executed
				q.during = false
				q.executed = false
				if resumed {
					// After-hooks finished; close out the command.
					if guarded {
						q.Guard("end", flags)
					}
					q.publish(cmd, Normal)
					q.hooksRan = false
					q.pos++
					q.cmd = q.item.cmdAt(q.pos)
					continue
				}
			} else {
				guarded = q.Guard("begin", flags)

				state, err := q.prepare(cmd)
				if err != nil {
					q.Error("%s", err)
					if guarded {
						q.Guard("error", flags)
					}
					break commands
				}
				q.state = state

				if !q.hooksRan && q.runHooks(q.hookScope(), "before") {
					return false
				}
			}

			// Hooks may have moved the target around, so resolve it
			// again before handing the command its state.
			var ret Disposition
			if state, err := q.prepare(cmd); err != nil {
				q.Error("%s", err)
				ret = Error
			} else {
				q.state = state
				ret = cmd.Entry.Exec(cmd, q)
			}

			switch ret {
			case Wait:
				// No end guard: the waiter owns the close of the pair.
				// The before-hook state belongs to this command only; the
				// resumption advances to the next one.
				q.hooksRan = false
				return false
			case Stop:
				q.hooksRan = false
				q.Flush()
				q.drained()
				return true
			case Error:
				if guarded {
					q.Guard("error", flags)
				}
				q.publish(cmd, Error)
				break commands
			}

			q.executed = true
			if q.runHooks(q.hookScope(), "after") {
				return false
			}
			q.executed = false

			if guarded {
				q.Guard("end", flags)
			}
			q.publish(cmd, Normal)

			q.hooksRan = false
			q.pos++
			q.cmd = q.item.cmdAt(q.pos)
		}

		// An erroring command terminates only its own list; move on to
		// the next item.
		finished := q.item
		q.items = q.items[1:]
		finished.list.Release()

		if len(q.items) > 0 {
			q.item = q.items[0]
			q.pos = 0
			q.cmd = q.item.cmdAt(0)
		} else {
			q.item = nil
			q.cmd = nil
		}
	}

	q.drained()
	return true
}

func (q *Queue) drained() {
	if q.clientExit > 0 && q.client != nil {
		q.client.MarkExit()
	}
	if q.bus != nil {
		q.bus.Publish(notify.Event{Type: notify.EventQueueDrained})
	}
	if fn := q.emptyFn; fn != nil {
		fn(q) // may release q
	}
}

func (q *Queue) publish(cmd *Command, d Disposition) {
	if q.bus == nil {
		return
	}
	q.bus.Publish(notify.Event{
		Type: notify.EventCommandExecuted,
		Data: map[string]any{
			"command":     cmd.Entry.Name,
			"number":      q.number,
			"disposition": d.String(),
			"time":        q.time,
		},
	})
}
