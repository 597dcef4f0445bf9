/*
Package multisig implements a GAS wallet contract controlled by three
principals.

The set of principals is fixed at deployment and can't be changed. Any of them
can submit a transfer proposal which is executed only after all three
principals endorse it. Submission itself is the proposer's endorsement. At most
one proposal is pending at a time. Transfer is performed in the same
transaction that brings the last endorsement; if it fails, the transaction
faults and the proposal keeps its previous endorsements.

Every executed proposal bumps the sequence number, so an endorsement delivered
after the execution does not hit the completed cycle. EndorseSequence binds an
endorsement to a particular sequence number.

Errors are reported as FAULT exceptions with names from multisigconst package.

# Contract notifications

Proposed notification. This notification is produced when a principal submits
a new transfer proposal.

	Proposed:
	  - name: sequence
	    type: Integer
	  - name: proposer
	    type: Hash160
	  - name: recipient
	    type: Hash160
	  - name: amount
	    type: Integer

Endorsed notification. This notification is produced for every recorded
endorsement including the implicit endorsement of the proposer. Count is the
number of endorsements collected so far.

	Endorsed:
	  - name: sequence
	    type: Integer
	  - name: principal
	    type: Hash160
	  - name: count
	    type: Integer

Executed notification. This notification is produced when GAS of the proposal
is transferred to the recipient.

	Executed:
	  - name: sequence
	    type: Integer
	  - name: recipient
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package multisig

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'principals' -> std.Serialize([]interop.Hash160)
   three principal accounts, written once at deployment
 - 'proposal' -> std.Serialize(Proposal)
   live transfer proposal, missing when the contract is idle
 - 'endorsements' -> std.Serialize([]interop.Hash160)
   principals endorsed the live proposal in order of endorsement
 - 'lastExecuted' -> int
   sequence number of the last executed proposal
*/
